package cloud

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"

	"github.com/osctl-io/osctl/internal/config"
)

// RealClient implements Client using the OpenStack APIs via gophercloud.
type RealClient struct {
	provider *gophercloud.ProviderClient
	identity *gophercloud.ServiceClient
	network  *gophercloud.ServiceClient
	image    *gophercloud.ServiceClient
	http     *http.Client
	timeouts *config.Timeouts
}

// Ensure interface compliance.
var _ Client = (*RealClient)(nil)

// Connect authenticates against the cloud and returns a ready client.
//
// Credentials come from OS_* environment variables when OS_AUTH_URL is set,
// otherwise from the named clouds.yaml entry (empty name falls back to
// OS_CLOUD).
func Connect(ctx context.Context, cloudName string) (*RealClient, error) {
	opts, region, err := connectOptions(cloudName)
	if err != nil {
		return nil, err
	}
	return NewRealClient(ctx, opts, region)
}

// connectOptions resolves the credentials to authenticate with. A set
// OS_AUTH_URL selects the environment wholesale; clouds.yaml is not
// consulted in that case.
func connectOptions(cloudName string) (gophercloud.AuthOptions, string, error) {
	if os.Getenv("OS_AUTH_URL") != "" {
		opts, err := openstack.AuthOptionsFromEnv()
		if err != nil {
			return gophercloud.AuthOptions{}, "", fmt.Errorf("failed to read credentials from environment: %w", err)
		}
		return opts, os.Getenv("OS_REGION_NAME"), nil
	}

	entry, err := config.LookupCloud(cloudName)
	if err != nil {
		return gophercloud.AuthOptions{}, "", err
	}
	return authOptions(entry), entry.RegionName, nil
}

// NewRealClient authenticates with the given options and builds the
// identity, networking and image service clients.
func NewRealClient(ctx context.Context, opts gophercloud.AuthOptions, region string) (*RealClient, error) {
	opts.AllowReauth = true

	provider, err := openstack.AuthenticatedClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	eo := gophercloud.EndpointOpts{Region: region}

	identity, err := openstack.NewIdentityV3(provider, eo)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity client: %w", err)
	}

	network, err := openstack.NewNetworkV2(provider, eo)
	if err != nil {
		return nil, fmt.Errorf("failed to create networking client: %w", err)
	}

	image, err := openstack.NewImageV2(provider, eo)
	if err != nil {
		return nil, fmt.Errorf("failed to create image client: %w", err)
	}

	return &RealClient{
		provider: provider,
		identity: identity,
		network:  network,
		image:    image,
		http:     &http.Client{},
		timeouts: config.LoadTimeouts(),
	}, nil
}

// authOptions converts a clouds.yaml entry into gophercloud auth options.
func authOptions(entry *config.Cloud) gophercloud.AuthOptions {
	opts := gophercloud.AuthOptions{
		IdentityEndpoint: entry.Auth.AuthURL,
		Username:         entry.Auth.Username,
		UserID:           entry.Auth.UserID,
		Password:         entry.Auth.Password,
		DomainName:       entry.Auth.UserDomainName,
	}
	if opts.DomainName == "" {
		opts.DomainName = entry.Auth.DomainName
	}

	if entry.Auth.ProjectID != "" || entry.Auth.ProjectName != "" {
		opts.Scope = &gophercloud.AuthScope{
			ProjectID:   entry.Auth.ProjectID,
			ProjectName: entry.Auth.ProjectName,
			DomainName:  entry.Auth.ProjectDomainName,
		}
		if opts.Scope.ProjectName != "" && opts.Scope.DomainName == "" {
			opts.Scope.DomainName = opts.DomainName
		}
	}

	return opts
}

// operationTimeout returns the timeout to apply to a mutating call,
// falling back to the configured default when the caller passed none.
func (c *RealClient) operationTimeout(timeout time.Duration) time.Duration {
	if timeout > 0 {
		return timeout
	}
	return c.timeouts.Operation
}
