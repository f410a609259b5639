package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/osctl-io/osctl/internal/cloud"
)

// FloatingIPSpec describes the desired state of a floating IP.
type FloatingIPSpec struct {
	// Address is the floating IP address to allocate or release. Required
	// when State is absent; optional when present (the cloud assigns one).
	Address string
	// Network is the name or ID of the external network. Required.
	Network string
	// Project is the name or ID of the owning project. Empty means the
	// session's current project.
	Project string

	State     State
	Wait      bool
	Timeout   time.Duration
	CheckMode bool
}

// FloatingIP reconciles a floating IP against the desired state and returns
// the normalized result. At most one mutating call is issued, and only after
// all resolution succeeded.
func FloatingIP(ctx context.Context, client cloud.Client, spec FloatingIPSpec) (*FloatingIPResult, error) {
	if spec.Network == "" {
		return nil, &MissingPrerequisiteError{Field: "network"}
	}
	if spec.State == StateAbsent && spec.Address == "" {
		return nil, &MissingPrerequisiteError{Field: "address", Reason: "when state is absent"}
	}

	if spec.CheckMode {
		// True state is unknown without contacting the cloud; echo the
		// inputs unchanged.
		return &FloatingIPResult{
			Changed:     false,
			Address:     spec.Address,
			NetworkName: spec.Network,
			ProjectName: spec.Project,
			State:       spec.State.String(),
		}, nil
	}

	switch spec.State {
	case StateAbsent:
		return releaseFloatingIP(ctx, client, spec)
	default:
		return allocateFloatingIP(ctx, client, spec)
	}
}

// allocateFloatingIP ensures a floating IP exists on the network. An
// existing match wins over creating a new one; duplicates are tolerated and
// the first match is returned.
func allocateFloatingIP(ctx context.Context, client cloud.Client, spec FloatingIPSpec) (*FloatingIPResult, error) {
	project, network, err := resolveScope(ctx, client, spec.Project, spec.Network)
	if err != nil {
		return nil, err
	}

	filter := cloud.FloatingIPFilter{
		NetworkID: network.ID,
		ProjectID: project.ID,
		Address:   spec.Address,
	}

	fips, err := client.SearchFloatingIPs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search floating ips: %w", err)
	}

	if len(fips) > 0 {
		// Floating IP already exists.
		return newFloatingIPResult(false, fips[0].Address, network, project, spec.State), nil
	}

	fip, err := client.CreateFloatingIP(ctx, cloud.CreateFloatingIPOpts{
		NetworkID: network.ID,
		ProjectID: project.ID,
		Address:   spec.Address,
		Wait:      spec.Wait,
		Timeout:   spec.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return newFloatingIPResult(true, fip.Address, network, project, spec.State), nil
}

// releaseFloatingIP ensures the floating IP is gone. The exact-match filter
// must yield at most one address; several matches indicate an inconsistency
// we refuse to guess about.
func releaseFloatingIP(ctx context.Context, client cloud.Client, spec FloatingIPSpec) (*FloatingIPResult, error) {
	project, network, err := resolveScope(ctx, client, spec.Project, spec.Network)
	if err != nil {
		return nil, err
	}

	fips, err := client.SearchFloatingIPs(ctx, cloud.FloatingIPFilter{
		Address:   spec.Address,
		NetworkID: network.ID,
		ProjectID: project.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search floating ips: %w", err)
	}

	if len(fips) == 0 {
		// Floating IP absent already.
		return newFloatingIPResult(false, spec.Address, network, project, spec.State), nil
	}
	if len(fips) > 1 {
		return nil, &AmbiguousResourceError{Kind: "floating ip", NameOrID: spec.Address, Matches: len(fips)}
	}

	fip := fips[0]
	if err := client.DeleteFloatingIP(ctx, fip.ID, spec.Wait, spec.Timeout); err != nil {
		return nil, err
	}

	return newFloatingIPResult(true, fip.Address, network, project, spec.State), nil
}

// resolveScope resolves the project and, within it, the network.
func resolveScope(ctx context.Context, client cloud.Client, projectNameOrID, networkNameOrID string) (*cloud.Project, *cloud.Network, error) {
	project, err := resolveProject(ctx, client, projectNameOrID)
	if err != nil {
		return nil, nil, err
	}

	network, err := resolveNetwork(ctx, client, networkNameOrID, project.ID)
	if err != nil {
		return nil, nil, err
	}

	return project, network, nil
}

// resolveProject maps a project name or ID to a single project record. An
// empty value, or one naming the session's current project, resolves to the
// current project without a lookup.
func resolveProject(ctx context.Context, client cloud.ProjectAPI, nameOrID string) (*cloud.Project, error) {
	current, err := client.GetCurrentProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current project: %w", err)
	}

	if nameOrID == "" || nameOrID == current.Name || nameOrID == current.ID {
		return current, nil
	}

	project, err := client.GetProject(ctx, nameOrID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", nameOrID, err)
	}
	if project == nil {
		return nil, &NotFoundError{Kind: "project", NameOrID: nameOrID}
	}
	return project, nil
}

// resolveNetwork maps a network name or ID, scoped to a project, to exactly
// one network record. Zero or several matches is an error, never silently
// disambiguated.
func resolveNetwork(ctx context.Context, client cloud.NetworkAPI, nameOrID, projectID string) (*cloud.Network, error) {
	networks, err := client.SearchNetworks(ctx, nameOrID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to search networks: %w", err)
	}
	if len(networks) != 1 {
		return nil, &AmbiguousResourceError{Kind: "network", NameOrID: nameOrID, Matches: len(networks)}
	}
	return &networks[0], nil
}

func newFloatingIPResult(changed bool, address string, network *cloud.Network, project *cloud.Project, state State) *FloatingIPResult {
	return &FloatingIPResult{
		Changed:     changed,
		Address:     address,
		NetworkName: network.Name,
		NetworkID:   network.ID,
		ProjectName: project.Name,
		ProjectID:   project.ID,
		State:       state.String(),
	}
}
