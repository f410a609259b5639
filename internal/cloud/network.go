package cloud

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/networks"
)

// SearchNetworks returns all networks matching the given name or ID,
// optionally restricted to the owning project.
func (c *RealClient) SearchNetworks(ctx context.Context, nameOrID, projectID string) ([]Network, error) {
	matches, err := c.listNetworks(ctx, networks.ListOpts{Name: nameOrID, TenantID: projectID})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		// Not a known name; the caller may have passed an ID.
		matches, err = c.listNetworks(ctx, networks.ListOpts{ID: nameOrID, TenantID: projectID})
		if err != nil {
			return nil, err
		}
	}

	result := make([]Network, 0, len(matches))
	for _, n := range matches {
		projectID := n.ProjectID
		if projectID == "" {
			projectID = n.TenantID
		}
		result = append(result, Network{ID: n.ID, Name: n.Name, ProjectID: projectID})
	}
	return result, nil
}

func (c *RealClient) listNetworks(ctx context.Context, opts networks.ListOpts) ([]networks.Network, error) {
	pages, err := networks.List(c.network, opts).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	matches, err := networks.ExtractNetworks(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract networks: %w", err)
	}
	return matches, nil
}
