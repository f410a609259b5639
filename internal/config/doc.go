// Package config loads OpenStack credentials and operation timeouts.
//
// Credentials follow the standard clouds.yaml convention: a named cloud
// entry with an auth section, looked up in the working directory,
// ~/.config/openstack and /etc/openstack. OS_* environment variables take
// precedence over file-based credentials. Timeouts default from
// OSCTL_TIMEOUT_* environment variables.
package config
