package authz

// Role names carried in the identity claims
const (
	RoleCustomer = "customer"
	RoleOfficer  = "officer"
	RoleAdmin    = "admin"
)

// Capability is one action a caller may be allowed to perform
type Capability string

const (
	ReadApplications   Capability = "applications:read"
	SubmitApplications Capability = "applications:submit"
	DeleteApplications Capability = "applications:delete"
	RegisterDocuments  Capability = "documents:register"
	VerifyDocuments    Capability = "documents:verify"
	Decide             Capability = "applications:decide"
	RequestReview      Capability = "applications:request_review"
	AddNotes           Capability = "applications:notes"
	SetAdvisory        Capability = "applications:advisory"
	ViewDashboard      Capability = "dashboard:read"
	ExportReports      Capability = "reports:export"
	PurgeApplications  Capability = "applications:purge"
	ViewJobs           Capability = "jobs:read"
)

var customer = []Capability{ReadApplications, SubmitApplications, DeleteApplications, RegisterDocuments}

var officer = append(append([]Capability{}, customer...),
	VerifyDocuments, Decide, RequestReview, AddNotes, SetAdvisory, ViewDashboard, ExportReports)

var grants = map[string]map[Capability]bool{
	RoleCustomer: set(customer),
	RoleOfficer:  set(officer),
	RoleAdmin:    set(append(append([]Capability{}, officer...), PurgeApplications, ViewJobs)),
}

func set(caps []Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

// Allows reports whether role holds capability. Unknown roles hold nothing.
func Allows(role string, capability Capability) bool {
	return grants[role][capability]
}

// IsKnownRole reports whether role is one of the defined roles
func IsKnownRole(role string) bool {
	_, ok := grants[role]
	return ok
}
