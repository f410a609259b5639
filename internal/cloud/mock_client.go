package cloud

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// MockClient is a mock implementation of Client.
// Unset function fields fall back to benign defaults so tests only stub
// what they care about.
type MockClient struct {
	GetCurrentProjectFunc func(ctx context.Context) (*Project, error)
	GetProjectFunc        func(ctx context.Context, nameOrID string) (*Project, error)

	SearchNetworksFunc func(ctx context.Context, nameOrID, projectID string) ([]Network, error)

	SearchFloatingIPsFunc func(ctx context.Context, filter FloatingIPFilter) ([]FloatingIP, error)
	CreateFloatingIPFunc  func(ctx context.Context, opts CreateFloatingIPOpts) (*FloatingIP, error)
	DeleteFloatingIPFunc  func(ctx context.Context, id string, wait bool, timeout time.Duration) error

	GetImageFunc    func(ctx context.Context, nameOrID string) (*Image, error)
	CreateImageFunc func(ctx context.Context, opts CreateImageOpts) (*Image, error)
	DeleteImageFunc func(ctx context.Context, nameOrID string, wait bool, timeout time.Duration) error

	FetchRemoteFunc func(ctx context.Context, uri string) (io.ReadCloser, http.Header, error)

	// Calls counts invocations per method name.
	Calls map[string]int
}

// Ensure interface compliance.
var _ Client = (*MockClient)(nil)

func (m *MockClient) record(method string) {
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[method]++
}

// GetCurrentProject mocks current project lookup.
func (m *MockClient) GetCurrentProject(ctx context.Context) (*Project, error) {
	m.record("GetCurrentProject")
	if m.GetCurrentProjectFunc != nil {
		return m.GetCurrentProjectFunc(ctx)
	}
	return &Project{ID: "mock-project-id", Name: "mock-project"}, nil
}

// GetProject mocks project lookup.
func (m *MockClient) GetProject(ctx context.Context, nameOrID string) (*Project, error) {
	m.record("GetProject")
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, nameOrID)
	}
	return &Project{ID: "mock-project-id", Name: nameOrID}, nil
}

// SearchNetworks mocks network search.
func (m *MockClient) SearchNetworks(ctx context.Context, nameOrID, projectID string) ([]Network, error) {
	m.record("SearchNetworks")
	if m.SearchNetworksFunc != nil {
		return m.SearchNetworksFunc(ctx, nameOrID, projectID)
	}
	return []Network{{ID: "mock-network-id", Name: nameOrID, ProjectID: projectID}}, nil
}

// SearchFloatingIPs mocks floating IP search.
func (m *MockClient) SearchFloatingIPs(ctx context.Context, filter FloatingIPFilter) ([]FloatingIP, error) {
	m.record("SearchFloatingIPs")
	if m.SearchFloatingIPsFunc != nil {
		return m.SearchFloatingIPsFunc(ctx, filter)
	}
	return nil, nil
}

// CreateFloatingIP mocks floating IP allocation.
func (m *MockClient) CreateFloatingIP(ctx context.Context, opts CreateFloatingIPOpts) (*FloatingIP, error) {
	m.record("CreateFloatingIP")
	if m.CreateFloatingIPFunc != nil {
		return m.CreateFloatingIPFunc(ctx, opts)
	}
	address := opts.Address
	if address == "" {
		address = "203.0.113.1"
	}
	return &FloatingIP{
		ID:        "mock-fip-id",
		Address:   address,
		NetworkID: opts.NetworkID,
		ProjectID: opts.ProjectID,
		Status:    "DOWN",
	}, nil
}

// DeleteFloatingIP mocks floating IP release.
func (m *MockClient) DeleteFloatingIP(ctx context.Context, id string, wait bool, timeout time.Duration) error {
	m.record("DeleteFloatingIP")
	if m.DeleteFloatingIPFunc != nil {
		return m.DeleteFloatingIPFunc(ctx, id, wait, timeout)
	}
	return nil
}

// GetImage mocks image lookup.
func (m *MockClient) GetImage(ctx context.Context, nameOrID string) (*Image, error) {
	m.record("GetImage")
	if m.GetImageFunc != nil {
		return m.GetImageFunc(ctx, nameOrID)
	}
	return nil, nil
}

// CreateImage mocks image upload.
func (m *MockClient) CreateImage(ctx context.Context, opts CreateImageOpts) (*Image, error) {
	m.record("CreateImage")
	if m.CreateImageFunc != nil {
		return m.CreateImageFunc(ctx, opts)
	}
	id := opts.ID
	if id == "" {
		id = "mock-image-id"
	}
	return &Image{
		ID:         id,
		Name:       opts.Name,
		DiskFormat: opts.DiskFormat,
		Status:     "active",
	}, nil
}

// DeleteImage mocks image deletion.
func (m *MockClient) DeleteImage(ctx context.Context, nameOrID string, wait bool, timeout time.Duration) error {
	m.record("DeleteImage")
	if m.DeleteImageFunc != nil {
		return m.DeleteImageFunc(ctx, nameOrID, wait, timeout)
	}
	return nil
}

// FetchRemote mocks remote content retrieval.
func (m *MockClient) FetchRemote(ctx context.Context, uri string) (io.ReadCloser, http.Header, error) {
	m.record("FetchRemote")
	if m.FetchRemoteFunc != nil {
		return m.FetchRemoteFunc(ctx, uri)
	}
	return io.NopCloser(strings.NewReader("")), http.Header{}, nil
}
