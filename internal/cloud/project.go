package cloud

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/projects"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/tokens"
)

// GetCurrentProject returns the project the authenticated session is scoped to.
func (c *RealClient) GetCurrentProject(ctx context.Context) (*Project, error) {
	result, ok := c.provider.GetAuthResult().(tokens.CreateResult)
	if !ok {
		return nil, fmt.Errorf("unexpected auth result type %T", c.provider.GetAuthResult())
	}

	project, err := result.ExtractProject()
	if err != nil {
		return nil, fmt.Errorf("failed to extract project from token: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("session token is not scoped to a project")
	}

	return &Project{ID: project.ID, Name: project.Name}, nil
}

// GetProject looks a project up by name or ID.
// It returns nil without error when no project matches.
func (c *RealClient) GetProject(ctx context.Context, nameOrID string) (*Project, error) {
	// Try by ID first; non-UUID names simply come back as 404.
	project, err := projects.Get(ctx, c.identity, nameOrID).Extract()
	if err == nil {
		return &Project{ID: project.ID, Name: project.Name}, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to get project %s: %w", nameOrID, err)
	}

	pages, err := projects.List(c.identity, projects.ListOpts{Name: nameOrID}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	matches, err := projects.ExtractProjects(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract projects: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	return &Project{ID: matches[0].ID, Name: matches[0].Name}, nil
}
