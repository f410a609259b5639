package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/layer3/floatingips"

	"github.com/osctl-io/osctl/internal/util/retry"
)

// SearchFloatingIPs returns all floating IPs matching the filter.
func (c *RealClient) SearchFloatingIPs(ctx context.Context, filter FloatingIPFilter) ([]FloatingIP, error) {
	opts := floatingips.ListOpts{
		FloatingNetworkID: filter.NetworkID,
		TenantID:          filter.ProjectID,
		FloatingIP:        filter.Address,
	}

	pages, err := floatingips.List(c.network, opts).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list floating ips: %w", err)
	}
	matches, err := floatingips.ExtractFloatingIPs(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract floating ips: %w", err)
	}

	result := make([]FloatingIP, 0, len(matches))
	for _, fip := range matches {
		result = append(result, newFloatingIP(&fip))
	}
	return result, nil
}

// CreateFloatingIP allocates a new floating IP on the given network.
// When opts.Wait is set it blocks until the address reaches a steady state
// or the timeout expires.
func (c *RealClient) CreateFloatingIP(ctx context.Context, opts CreateFloatingIPOpts) (*FloatingIP, error) {
	ctx, cancel := context.WithTimeout(ctx, c.operationTimeout(opts.Timeout))
	defer cancel()

	createOpts := floatingips.CreateOpts{
		FloatingNetworkID: opts.NetworkID,
		TenantID:          opts.ProjectID,
		FloatingIP:        opts.Address,
	}

	fip, err := floatingips.Create(ctx, c.network, createOpts).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create floating ip: %w", err)
	}

	if opts.Wait {
		fip, err = c.waitForFloatingIP(ctx, fip.ID)
		if err != nil {
			return nil, err
		}
	}

	result := newFloatingIP(fip)
	return &result, nil
}

// DeleteFloatingIP releases the floating IP with the given ID. When wait is
// set it blocks until the address is gone or the timeout expires.
func (c *RealClient) DeleteFloatingIP(ctx context.Context, id string, wait bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, c.operationTimeout(timeout))
	defer cancel()

	// Delete with retry logic (resource might be locked)
	err := retry.WithExponentialBackoff(ctx, func() error {
		err := floatingips.Delete(ctx, c.network, id).ExtractErr()
		if err != nil {
			if isNotFound(err) {
				return nil // Floating IP already deleted
			}
			if isResourceLocked(err) {
				return err
			}
			return retry.Fatal(err)
		}
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
	if err != nil {
		return fmt.Errorf("failed to delete floating ip %s: %w", id, err)
	}

	if wait {
		return c.waitForFloatingIPGone(ctx, id)
	}
	return nil
}

// waitForFloatingIP polls until the floating IP leaves a transient status.
// An unassociated floating IP settles in DOWN; ACTIVE means it is in use.
func (c *RealClient) waitForFloatingIP(ctx context.Context, id string) (*floatingips.FloatingIP, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		fip, err := floatingips.Get(ctx, c.network, id).Extract()
		if err != nil {
			return nil, fmt.Errorf("failed to get floating ip %s: %w", id, err)
		}
		switch fip.Status {
		case "ACTIVE", "DOWN":
			return fip, nil
		case "ERROR":
			return nil, fmt.Errorf("floating ip %s entered ERROR state", id)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for floating ip %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

// waitForFloatingIPGone polls until the floating IP no longer exists.
func (c *RealClient) waitForFloatingIPGone(ctx context.Context, id string) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		_, err := floatingips.Get(ctx, c.network, id).Extract()
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return fmt.Errorf("failed to get floating ip %s: %w", id, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for floating ip %s deletion: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

func newFloatingIP(fip *floatingips.FloatingIP) FloatingIP {
	projectID := fip.ProjectID
	if projectID == "" {
		projectID = fip.TenantID
	}
	return FloatingIP{
		ID:        fip.ID,
		Address:   fip.FloatingIP,
		NetworkID: fip.FloatingNetworkID,
		ProjectID: projectID,
		Status:    fip.Status,
	}
}
