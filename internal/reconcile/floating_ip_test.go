package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osctl-io/osctl/internal/cloud"
)

func devstackClient() *cloud.MockClient {
	return &cloud.MockClient{
		GetCurrentProjectFunc: func(_ context.Context) (*cloud.Project, error) {
			return &cloud.Project{ID: "proj-1", Name: "devstack"}, nil
		},
		SearchNetworksFunc: func(_ context.Context, nameOrID, projectID string) ([]cloud.Network, error) {
			return []cloud.Network{{ID: "net-1", Name: nameOrID, ProjectID: projectID}}, nil
		},
	}
}

func TestFloatingIP_RequiresNetwork(t *testing.T) {
	mock := &cloud.MockClient{}

	_, err := FloatingIP(context.Background(), mock, FloatingIPSpec{State: StatePresent})

	var missing *MissingPrerequisiteError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "network", missing.Field)
	assert.Empty(t, mock.Calls)
}

func TestFloatingIP_AbsentRequiresAddress(t *testing.T) {
	mock := devstackClient()

	_, err := FloatingIP(context.Background(), mock, FloatingIPSpec{
		Network: "ext_net",
		State:   StateAbsent,
	})

	var missing *MissingPrerequisiteError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "address", missing.Field)
	// Validation happens before any project or network resolution.
	assert.Empty(t, mock.Calls)
}

func TestFloatingIP_CheckModeEchoesWithoutCalls(t *testing.T) {
	mock := &cloud.MockClient{}

	for _, state := range []State{StatePresent, StateAbsent} {
		result, err := FloatingIP(context.Background(), mock, FloatingIPSpec{
			Address:   "203.0.113.2",
			Network:   "ext_net",
			Project:   "devstack",
			State:     state,
			CheckMode: true,
		})
		require.NoError(t, err)

		assert.False(t, result.Changed)
		assert.Equal(t, "203.0.113.2", result.Address)
		assert.Equal(t, "ext_net", result.NetworkName)
		assert.Equal(t, "devstack", result.ProjectName)
		assert.Equal(t, state.String(), result.State)
	}

	assert.Empty(t, mock.Calls)
}

func TestFloatingIP_AllocateNew(t *testing.T) {
	mock := devstackClient()
	mock.SearchFloatingIPsFunc = func(_ context.Context, _ cloud.FloatingIPFilter) ([]cloud.FloatingIP, error) {
		return nil, nil
	}

	var createOpts cloud.CreateFloatingIPOpts
	mock.CreateFloatingIPFunc = func(_ context.Context, opts cloud.CreateFloatingIPOpts) (*cloud.FloatingIP, error) {
		createOpts = opts
		return &cloud.FloatingIP{
			ID:        "fip-1",
			Address:   "203.0.113.7",
			NetworkID: opts.NetworkID,
			ProjectID: opts.ProjectID,
		}, nil
	}

	result, err := FloatingIP(context.Background(), mock, FloatingIPSpec{
		Network: "ext_net",
		Project: "devstack",
		State:   StatePresent,
		Wait:    true,
		Timeout: 90 * time.Second,
	})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, "203.0.113.7", result.Address)
	assert.Equal(t, "net-1", result.NetworkID)
	assert.Equal(t, "ext_net", result.NetworkName)
	assert.Equal(t, "devstack", result.ProjectName)
	assert.Equal(t, "proj-1", result.ProjectID)

	assert.Equal(t, "net-1", createOpts.NetworkID)
	assert.Equal(t, "proj-1", createOpts.ProjectID)
	assert.Empty(t, createOpts.Address)
	assert.True(t, createOpts.Wait)
	assert.Equal(t, 90*time.Second, createOpts.Timeout)
}

func TestFloatingIP_AllocateExistingIsNoop(t *testing.T) {
	mock := devstackClient()
	mock.SearchFloatingIPsFunc = func(_ context.Context, filter cloud.FloatingIPFilter) ([]cloud.FloatingIP, error) {
		assert.Equal(t, "net-1", filter.NetworkID)
		assert.Equal(t, "proj-1", filter.ProjectID)
		return []cloud.FloatingIP{
			{ID: "fip-1", Address: "203.0.113.7", NetworkID: filter.NetworkID},
			{ID: "fip-2", Address: "203.0.113.8", NetworkID: filter.NetworkID},
		}, nil
	}

	result, err := FloatingIP(context.Background(), mock, FloatingIPSpec{
		Network: "ext_net",
		State:   StatePresent,
	})
	require.NoError(t, err)

	// Duplicates are tolerated; the first match wins.
	assert.False(t, result.Changed)
	assert.Equal(t, "203.0.113.7", result.Address)
	assert.Zero(t, mock.Calls["CreateFloatingIP"])
}

func TestFloatingIP_AllocateWithAddressFilters(t *testing.T) {
	mock := devstackClient()

	var filter cloud.FloatingIPFilter
	mock.SearchFloatingIPsFunc = func(_ context.Context, f cloud.FloatingIPFilter) ([]cloud.FloatingIP, error) {
		filter = f
		return []cloud.FloatingIP{{Address: f.Address}}, nil
	}

	result, err := FloatingIP(context.Background(), mock, FloatingIPSpec{
		Address: "203.0.113.2",
		Network: "ext_net",
		State:   StatePresent,
	})
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Equal(t, "203.0.113.2", filter.Address)
}

func TestFloatingIP_ReleaseAbsentIsNoop(t *testing.T) {
	mock := devstackClient()
	mock.SearchFloatingIPsFunc = func(_ context.Context, _ cloud.FloatingIPFilter) ([]cloud.FloatingIP, error) {
		return nil, nil
	}

	result, err := FloatingIP(context.Background(), mock, FloatingIPSpec{
		Address: "203.0.113.2",
		Network: "ext_net",
		State:   StateAbsent,
	})
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Equal(t, "203.0.113.2", result.Address)
	assert.Zero(t, mock.Calls["DeleteFloatingIP"])
}

func TestFloatingIP_Release(t *testing.T) {
	mock := devstackClient()
	mock.SearchFloatingIPsFunc = func(_ context.Context, filter cloud.FloatingIPFilter) ([]cloud.FloatingIP, error) {
		return []cloud.FloatingIP{{ID: "fip-1", Address: filter.Address, NetworkID: filter.NetworkID}}, nil
	}

	var deletedID string
	mock.DeleteFloatingIPFunc = func(_ context.Context, id string, wait bool, timeout time.Duration) error {
		deletedID = id
		assert.True(t, wait)
		assert.Equal(t, time.Minute, timeout)
		return nil
	}

	result, err := FloatingIP(context.Background(), mock, FloatingIPSpec{
		Address: "203.0.113.2",
		Network: "ext_net",
		State:   StateAbsent,
		Wait:    true,
		Timeout: time.Minute,
	})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, "203.0.113.2", result.Address)
	assert.Equal(t, "fip-1", deletedID)
}

func TestFloatingIP_ReleaseAmbiguousMatch(t *testing.T) {
	mock := devstackClient()
	mock.SearchFloatingIPsFunc = func(_ context.Context, _ cloud.FloatingIPFilter) ([]cloud.FloatingIP, error) {
		return []cloud.FloatingIP{{ID: "fip-1"}, {ID: "fip-2"}}, nil
	}

	_, err := FloatingIP(context.Background(), mock, FloatingIPSpec{
		Address: "203.0.113.2",
		Network: "ext_net",
		State:   StateAbsent,
	})

	var ambiguous *AmbiguousResourceError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "floating ip", ambiguous.Kind)
	assert.Zero(t, mock.Calls["DeleteFloatingIP"])
}

func TestFloatingIP_PresentIsIdempotent(t *testing.T) {
	// Stateful mock: the first allocation is remembered.
	var allocated []cloud.FloatingIP

	mock := devstackClient()
	mock.SearchFloatingIPsFunc = func(_ context.Context, _ cloud.FloatingIPFilter) ([]cloud.FloatingIP, error) {
		return allocated, nil
	}
	mock.CreateFloatingIPFunc = func(_ context.Context, opts cloud.CreateFloatingIPOpts) (*cloud.FloatingIP, error) {
		fip := cloud.FloatingIP{ID: "fip-1", Address: "203.0.113.9", NetworkID: opts.NetworkID, ProjectID: opts.ProjectID}
		allocated = append(allocated, fip)
		return &fip, nil
	}

	spec := FloatingIPSpec{Network: "ext_net", State: StatePresent}

	first, err := FloatingIP(context.Background(), mock, spec)
	require.NoError(t, err)
	second, err := FloatingIP(context.Background(), mock, spec)
	require.NoError(t, err)

	assert.True(t, first.Changed)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Address, second.Address)
	assert.Equal(t, first.NetworkID, second.NetworkID)
	assert.Equal(t, 1, mock.Calls["CreateFloatingIP"])
}

func TestResolveProject(t *testing.T) {
	current := &cloud.Project{ID: "proj-1", Name: "devstack"}

	tests := []struct {
		name       string
		nameOrID   string
		getProject func(ctx context.Context, nameOrID string) (*cloud.Project, error)
		want       string
		wantLookup bool
		wantErr    bool
	}{
		{
			name:     "empty resolves to current project",
			nameOrID: "",
			want:     "proj-1",
		},
		{
			name:     "current project name skips lookup",
			nameOrID: "devstack",
			want:     "proj-1",
		},
		{
			name:     "current project id skips lookup",
			nameOrID: "proj-1",
			want:     "proj-1",
		},
		{
			name:     "other project is looked up",
			nameOrID: "other",
			getProject: func(_ context.Context, nameOrID string) (*cloud.Project, error) {
				return &cloud.Project{ID: "proj-2", Name: nameOrID}, nil
			},
			want:       "proj-2",
			wantLookup: true,
		},
		{
			name:     "unknown project fails",
			nameOrID: "ghost",
			getProject: func(_ context.Context, _ string) (*cloud.Project, error) {
				return nil, nil
			},
			wantLookup: true,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &cloud.MockClient{
				GetCurrentProjectFunc: func(_ context.Context) (*cloud.Project, error) {
					return current, nil
				},
				GetProjectFunc: tt.getProject,
			}

			project, err := resolveProject(context.Background(), mock, tt.nameOrID)

			if tt.wantErr {
				var notFound *NotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, "project", notFound.Kind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, project.ID)
			if tt.wantLookup {
				assert.Equal(t, 1, mock.Calls["GetProject"])
			} else {
				assert.Zero(t, mock.Calls["GetProject"])
			}
		})
	}
}

func TestResolveNetwork(t *testing.T) {
	tests := []struct {
		name    string
		matches []cloud.Network
		wantErr bool
	}{
		{name: "no match", matches: nil, wantErr: true},
		{name: "one match", matches: []cloud.Network{{ID: "net-1", Name: "ext_net"}}},
		{name: "several matches", matches: []cloud.Network{{ID: "net-1"}, {ID: "net-2"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &cloud.MockClient{
				SearchNetworksFunc: func(_ context.Context, _, _ string) ([]cloud.Network, error) {
					return tt.matches, nil
				},
			}

			network, err := resolveNetwork(context.Background(), mock, "ext_net", "proj-1")

			if tt.wantErr {
				var ambiguous *AmbiguousResourceError
				require.ErrorAs(t, err, &ambiguous)
				assert.Equal(t, "network", ambiguous.Kind)
				assert.Equal(t, len(tt.matches), ambiguous.Matches)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "net-1", network.ID)
		})
	}
}

func TestFloatingIP_CollaboratorErrorsPropagate(t *testing.T) {
	boom := errors.New("neutron is down")

	mock := devstackClient()
	mock.SearchFloatingIPsFunc = func(_ context.Context, _ cloud.FloatingIPFilter) ([]cloud.FloatingIP, error) {
		return nil, boom
	}

	_, err := FloatingIP(context.Background(), mock, FloatingIPSpec{
		Network: "ext_net",
		State:   StatePresent,
	})

	require.ErrorIs(t, err, boom)
}
