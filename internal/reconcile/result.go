package reconcile

// FloatingIPResult is the normalized outcome of a floating IP reconciliation.
type FloatingIPResult struct {
	Changed     bool   `json:"changed"`
	Address     string `json:"floating_ip_address"`
	NetworkName string `json:"floating_network_name"`
	NetworkID   string `json:"floating_network_id,omitempty"`
	ProjectName string `json:"project_name,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	State       string `json:"state"`
}

// ImageResult is the normalized outcome of an image reconciliation.
type ImageResult struct {
	Changed   bool   `json:"changed"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	SizeBytes int64  `json:"size,omitempty"`
	Format    string `json:"format,omitempty"`
	Checksum  string `json:"checksum,omitempty"`
	State     string `json:"state"`
}
