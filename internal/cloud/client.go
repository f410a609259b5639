// Package cloud provides a wrapper around the OpenStack APIs used by osctl:
// identity (projects), networking (networks, floating IPs) and the image
// service (Glance).
package cloud

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Project is an identity project (tenant).
type Project struct {
	ID   string
	Name string
}

// Network is a neutron network.
type Network struct {
	ID        string
	Name      string
	ProjectID string
}

// FloatingIP is a neutron floating IP.
type FloatingIP struct {
	ID        string
	Address   string
	NetworkID string
	ProjectID string
	Status    string
}

// Image is a Glance disk image.
type Image struct {
	ID         string
	Name       string
	SizeBytes  int64
	DiskFormat string
	Checksum   string
	Status     string
}

// FloatingIPFilter selects floating IPs by exact attribute match.
// Empty fields are not part of the filter.
type FloatingIPFilter struct {
	Address   string
	NetworkID string
	ProjectID string
}

// CreateFloatingIPOpts describes a floating IP allocation request.
type CreateFloatingIPOpts struct {
	NetworkID string
	ProjectID string
	// Address is an optional specific address to request. Empty lets the
	// cloud pick any free address on the network.
	Address string
	Wait    bool
	Timeout time.Duration
}

// CreateImageOpts describes an image upload request. Path must point at a
// local file containing the image content.
type CreateImageOpts struct {
	Name       string
	ID         string
	DiskFormat string
	Path       string
	Wait       bool
	Timeout    time.Duration
}

// ProjectAPI resolves identity projects.
type ProjectAPI interface {
	// GetCurrentProject returns the project the session is scoped to.
	GetCurrentProject(ctx context.Context) (*Project, error)

	// GetProject looks a project up by name or ID.
	// It returns nil without error when no project matches.
	GetProject(ctx context.Context, nameOrID string) (*Project, error)
}

// NetworkAPI queries neutron networks.
type NetworkAPI interface {
	// SearchNetworks returns all networks matching the given name or ID,
	// optionally restricted to the owning project.
	SearchNetworks(ctx context.Context, nameOrID, projectID string) ([]Network, error)
}

// FloatingIPAPI manages neutron floating IPs.
type FloatingIPAPI interface {
	// SearchFloatingIPs returns all floating IPs matching the filter.
	SearchFloatingIPs(ctx context.Context, filter FloatingIPFilter) ([]FloatingIP, error)

	// CreateFloatingIP allocates a new floating IP.
	CreateFloatingIP(ctx context.Context, opts CreateFloatingIPOpts) (*FloatingIP, error)

	// DeleteFloatingIP releases the floating IP with the given ID.
	DeleteFloatingIP(ctx context.Context, id string, wait bool, timeout time.Duration) error
}

// ImageAPI manages Glance images.
type ImageAPI interface {
	// GetImage looks an image up by name or ID.
	// It returns nil without error when no image matches.
	GetImage(ctx context.Context, nameOrID string) (*Image, error)

	// CreateImage uploads a local file as a new image.
	CreateImage(ctx context.Context, opts CreateImageOpts) (*Image, error)

	// DeleteImage deletes the image with the given name or ID.
	DeleteImage(ctx context.Context, nameOrID string, wait bool, timeout time.Duration) error
}

// RemoteFetcher retrieves remote image content.
type RemoteFetcher interface {
	// FetchRemote opens a stream over the content at the given URL and
	// returns it together with the response headers.
	FetchRemote(ctx context.Context, uri string) (io.ReadCloser, http.Header, error)
}

// Client is the full collaborator surface the reconcilers depend on.
type Client interface {
	ProjectAPI
	NetworkAPI
	FloatingIPAPI
	ImageAPI
	RemoteFetcher
}
