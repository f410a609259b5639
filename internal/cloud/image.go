package cloud

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gophercloud/gophercloud/v2/openstack/image/v2/imagedata"
	"github.com/gophercloud/gophercloud/v2/openstack/image/v2/images"

	"github.com/osctl-io/osctl/internal/util/retry"
)

// GetImage looks an image up by name or ID.
// It returns nil without error when no image matches.
func (c *RealClient) GetImage(ctx context.Context, nameOrID string) (*Image, error) {
	// Try by ID first; unknown IDs come back as 404.
	image, err := images.Get(ctx, c.image, nameOrID).Extract()
	if err == nil {
		result := newImage(image)
		return &result, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to get image %s: %w", nameOrID, err)
	}

	pages, err := images.List(c.image, images.ListOpts{Name: nameOrID}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	matches, err := images.ExtractImages(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	result := newImage(&matches[0])
	return &result, nil
}

// CreateImage registers a new image and uploads the content of the local
// file at opts.Path. When opts.Wait is set it blocks until the image is
// active or the timeout expires.
func (c *RealClient) CreateImage(ctx context.Context, opts CreateImageOpts) (*Image, error) {
	ctx, cancel := context.WithTimeout(ctx, c.operationTimeout(opts.Timeout))
	defer cancel()

	createOpts := images.CreateOpts{
		Name:            opts.Name,
		ID:              opts.ID,
		DiskFormat:      opts.DiskFormat,
		ContainerFormat: "bare",
	}

	image, err := images.Create(ctx, c.image, createOpts).Extract()
	if err != nil {
		return nil, fmt.Errorf("failed to create image %s: %w", opts.Name, err)
	}

	// #nosec G304
	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	if err := imagedata.Upload(ctx, c.image, image.ID, f).ExtractErr(); err != nil {
		return nil, fmt.Errorf("failed to upload image data for %s: %w", image.ID, err)
	}

	if opts.Wait {
		image, err = c.waitForImageActive(ctx, image.ID)
		if err != nil {
			return nil, err
		}
	} else {
		image, err = images.Get(ctx, c.image, image.ID).Extract()
		if err != nil {
			return nil, fmt.Errorf("failed to get image %s: %w", image.ID, err)
		}
	}

	result := newImage(image)
	return &result, nil
}

// DeleteImage deletes the image with the given name or ID. When wait is set
// it blocks until the image is gone or the timeout expires.
func (c *RealClient) DeleteImage(ctx context.Context, nameOrID string, wait bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, c.operationTimeout(timeout))
	defer cancel()

	image, err := c.GetImage(ctx, nameOrID)
	if err != nil {
		return err
	}
	if image == nil {
		return nil // Image already deleted
	}

	// Delete with retry logic (resource might be locked)
	err = retry.WithExponentialBackoff(ctx, func() error {
		err := images.Delete(ctx, c.image, image.ID).ExtractErr()
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			if isResourceLocked(err) {
				return err
			}
			return retry.Fatal(err)
		}
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", image.ID, err)
	}

	if wait {
		return c.waitForImageGone(ctx, image.ID)
	}
	return nil
}

// waitForImageActive polls until the image finishes processing.
func (c *RealClient) waitForImageActive(ctx context.Context, id string) (*images.Image, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		image, err := images.Get(ctx, c.image, id).Extract()
		if err != nil {
			return nil, fmt.Errorf("failed to get image %s: %w", id, err)
		}
		switch image.Status {
		case images.ImageStatusActive:
			return image, nil
		case images.ImageStatusKilled, images.ImageStatusDeleted:
			return nil, fmt.Errorf("image %s entered status %s during upload", id, image.Status)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("timed out waiting for image %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

// waitForImageGone polls until the image no longer exists.
func (c *RealClient) waitForImageGone(ctx context.Context, id string) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		_, err := images.Get(ctx, c.image, id).Extract()
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return fmt.Errorf("failed to get image %s: %w", id, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for image %s deletion: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

func newImage(image *images.Image) Image {
	return Image{
		ID:         image.ID,
		Name:       image.Name,
		SizeBytes:  image.SizeBytes,
		DiskFormat: image.DiskFormat,
		Checksum:   image.Checksum,
		Status:     string(image.Status),
	}
}
