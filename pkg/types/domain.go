package types

import "time"

// DNSCheck records the result of resolving the probed hostname.
type DNSCheck struct {
	Success   bool   `json:"success"`
	IPAddress string `json:"ip_address,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CheckResult is a plain pass/fail outcome for a single probe step.
type CheckResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TLSCheck records the TLS handshake outcome and leaf certificate metadata.
type TLSCheck struct {
	Success   bool      `json:"success"`
	Subject   string    `json:"subject,omitempty"`
	Issuer    string    `json:"issuer,omitempty"`
	NotBefore time.Time `json:"not_before,omitempty"`
	NotAfter  time.Time `json:"not_after,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// HTTPCheck records the final HTTP request outcome, including timing.
type HTTPCheck struct {
	Success        bool   `json:"success"`
	StatusCode     int    `json:"status_code,omitempty"`
	StatusText     string `json:"status_text,omitempty"`
	Redirects      int    `json:"redirects"`
	FinalURL       string `json:"final_url,omitempty"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Error          string `json:"error,omitempty"`
}

// ProbeReport aggregates all connectivity checks for one URL.
// TLS is nil for plain-http targets.
type ProbeReport struct {
	URL      string    `json:"url"`
	Hostname string    `json:"hostname"`
	Port     int       `json:"port"`
	Scheme   string    `json:"scheme"`
	DNS      DNSCheck  `json:"dns_resolution"`
	TCP      CheckResult `json:"port_check"`
	TLS      *TLSCheck `json:"ssl_info,omitempty"`
	HTTP     HTTPCheck `json:"http_status"`
	Errors   []string  `json:"errors"`
}

// Healthy reports whether the probe recorded no errors.
func (r ProbeReport) Healthy() bool { return len(r.Errors) == 0 }

// ServiceHealth summarizes one workload's replica health.
type ServiceHealth struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Running int32  `json:"running"`
	Desired int32  `json:"desired"`
	Healthy bool   `json:"healthy"`
}

// ClusterHealth is the read-only health view of a namespace.
type ClusterHealth struct {
	Namespace string          `json:"namespace"`
	Services  []ServiceHealth `json:"services"`
	Timestamp time.Time       `json:"timestamp"`
}

// WorkloadSummary describes one Deployment for architecture reports.
type WorkloadSummary struct {
	Name    string `json:"name"`
	Image   string `json:"image,omitempty"`
	Running int32  `json:"running"`
	Desired int32  `json:"desired"`
}

// ExposedService describes a Service fronting the workloads.
type ExposedService struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Ports []int32 `json:"ports,omitempty"`
}

// ArchitectureReport is the read-only topology view of a namespace.
type ArchitectureReport struct {
	Namespace   string            `json:"namespace"`
	Deployments []WorkloadSummary `json:"deployments"`
	Services    []ExposedService  `json:"services"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Deployment check statuses.
const (
	DeployReady    = "ready"
	DeployNotReady = "not_ready"
	DeploySuccess  = "success"
	DeployPartial  = "partial"
)

// DeployCheck is the result of a pre- or post-deployment verification.
type DeployCheck struct {
	Action         string          `json:"action"`
	Status         string          `json:"status"`
	Unhealthy      []ServiceHealth `json:"unhealthy_services,omitempty"`
	HealthyCount   int             `json:"healthy_services"`
	TotalCount     int             `json:"total_services"`
	HealthPercent  float64         `json:"health_percentage"`
	Recommendation string          `json:"recommendation"`
	Health         ClusterHealth   `json:"health_data"`
}
