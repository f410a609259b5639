package cloud

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osctl-io/osctl/internal/config"
)

const cloudsYAMLFixture = `
clouds:
  devstack:
    auth:
      auth_url: https://file-keystone.example.com/v3
      username: file-admin
      password: file-secret
      project_name: demo
      user_domain_name: Default
    region_name: FileRegion
`

func chdirWithCloudsYAML(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clouds.yaml"), []byte(cloudsYAMLFixture), 0o600))
	t.Chdir(dir)
}

func TestConnectOptions_EnvTakesPrecedenceOverCloudsYAML(t *testing.T) {
	chdirWithCloudsYAML(t)

	t.Setenv("OS_AUTH_URL", "https://env-keystone.example.com/v3")
	t.Setenv("OS_USERNAME", "env-admin")
	t.Setenv("OS_USERID", "")
	t.Setenv("OS_PASSWORD", "env-secret")
	t.Setenv("OS_APPLICATION_CREDENTIAL_ID", "")
	t.Setenv("OS_APPLICATION_CREDENTIAL_SECRET", "")
	t.Setenv("OS_REGION_NAME", "EnvRegion")

	opts, region, err := connectOptions("devstack")
	require.NoError(t, err)

	// The file entry for devstack exists but must never be consulted.
	assert.Equal(t, "https://env-keystone.example.com/v3", opts.IdentityEndpoint)
	assert.Equal(t, "env-admin", opts.Username)
	assert.Equal(t, "env-secret", opts.Password)
	assert.Equal(t, "EnvRegion", region)
}

func TestConnectOptions_FallsBackToCloudsYAML(t *testing.T) {
	chdirWithCloudsYAML(t)
	t.Setenv("OS_AUTH_URL", "")

	opts, region, err := connectOptions("devstack")
	require.NoError(t, err)

	assert.Equal(t, "https://file-keystone.example.com/v3", opts.IdentityEndpoint)
	assert.Equal(t, "file-admin", opts.Username)
	assert.Equal(t, "file-secret", opts.Password)
	assert.Equal(t, "FileRegion", region)

	require.NotNil(t, opts.Scope)
	assert.Equal(t, "demo", opts.Scope.ProjectName)
}

func TestConnectOptions_UnknownCloudFails(t *testing.T) {
	chdirWithCloudsYAML(t)
	t.Setenv("OS_AUTH_URL", "")

	_, _, err := connectOptions("ghost")
	assert.ErrorContains(t, err, "not found")
}

func TestAuthOptions(t *testing.T) {
	tests := []struct {
		name string
		auth config.AuthInfo
		want gophercloudWant
	}{
		{
			name: "user domain name wins over domain name",
			auth: config.AuthInfo{
				AuthURL:        "https://keystone.example.com/v3",
				Username:       "admin",
				Password:       "secret",
				UserDomainName: "Users",
				DomainName:     "Default",
			},
			want: gophercloudWant{domainName: "Users"},
		},
		{
			name: "domain name is the fallback",
			auth: config.AuthInfo{
				AuthURL:    "https://keystone.example.com/v3",
				UserID:     "u-123",
				Password:   "secret",
				DomainName: "Default",
			},
			want: gophercloudWant{userID: "u-123", domainName: "Default"},
		},
		{
			name: "project name scope defaults its domain",
			auth: config.AuthInfo{
				AuthURL:        "https://keystone.example.com/v3",
				Username:       "admin",
				Password:       "secret",
				UserDomainName: "Default",
				ProjectName:    "demo",
			},
			want: gophercloudWant{
				domainName:       "Default",
				scopeProjectName: "demo",
				scopeDomainName:  "Default",
			},
		},
		{
			name: "explicit project domain is kept",
			auth: config.AuthInfo{
				AuthURL:           "https://keystone.example.com/v3",
				Username:          "admin",
				Password:          "secret",
				UserDomainName:    "Users",
				ProjectName:       "demo",
				ProjectDomainName: "Projects",
			},
			want: gophercloudWant{
				domainName:       "Users",
				scopeProjectName: "demo",
				scopeDomainName:  "Projects",
			},
		},
		{
			name: "project id scope needs no domain",
			auth: config.AuthInfo{
				AuthURL:   "https://keystone.example.com/v3",
				Username:  "admin",
				Password:  "secret",
				ProjectID: "proj-1",
			},
			want: gophercloudWant{scopeProjectID: "proj-1"},
		},
		{
			name: "no project yields an unscoped session",
			auth: config.AuthInfo{
				AuthURL:  "https://keystone.example.com/v3",
				Username: "admin",
				Password: "secret",
			},
			want: gophercloudWant{unscoped: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := authOptions(&config.Cloud{Auth: tt.auth})

			assert.Equal(t, tt.auth.AuthURL, opts.IdentityEndpoint)
			assert.Equal(t, tt.auth.Username, opts.Username)
			assert.Equal(t, tt.auth.Password, opts.Password)
			if tt.want.userID != "" {
				assert.Equal(t, tt.want.userID, opts.UserID)
			}
			assert.Equal(t, tt.want.domainName, opts.DomainName)

			if tt.want.unscoped {
				assert.Nil(t, opts.Scope)
				return
			}
			require.NotNil(t, opts.Scope)
			assert.Equal(t, tt.want.scopeProjectID, opts.Scope.ProjectID)
			assert.Equal(t, tt.want.scopeProjectName, opts.Scope.ProjectName)
			assert.Equal(t, tt.want.scopeDomainName, opts.Scope.DomainName)
		})
	}
}

// gophercloudWant collects the fields an authOptions case asserts on.
type gophercloudWant struct {
	userID           string
	domainName       string
	scopeProjectID   string
	scopeProjectName string
	scopeDomainName  string
	unscoped         bool
}
