package search

// DefaultDataset returns the built-in suggestion dataset. The order here is
// the order suggestions appear in: matching filters in place and never
// re-sorts.
func DefaultDataset() []Record {
	return []Record{
		{ID: "P-1001", Name: "John Smith", Kind: "patient", URL: "/patients/1001/"},
		{ID: "P-1002", Name: "Emily Johnson", Kind: "patient", URL: "/patients/1002/"},
		{ID: "P-1003", Name: "Michael Brown", Kind: "patient", URL: "/patients/1003/"},
		{ID: "P-1004", Name: "Sarah Davis", Kind: "patient", URL: "/patients/1004/"},
		{ID: "P-1005", Name: "David Wilson", Kind: "patient", URL: "/patients/1005/"},
		{ID: "D-201", Name: "Dr. Anna Martinez", Kind: "doctor", URL: "/doctors/201/"},
		{ID: "D-202", Name: "Dr. James Anderson", Kind: "doctor", URL: "/doctors/202/"},
		{ID: "D-203", Name: "Dr. Linda Taylor", Kind: "doctor", URL: "/doctors/203/"},
		{ID: "D-204", Name: "Dr. Robert Thomas", Kind: "doctor", URL: "/doctors/204/"},
		{ID: "A-301", Name: "Appointments", Kind: "page", URL: "/appointments/"},
		{ID: "A-302", Name: "Billing", Kind: "page", URL: "/billing/"},
		{ID: "A-303", Name: "Medical Records", Kind: "page", URL: "/records/"},
		{ID: "A-304", Name: "Dashboard", Kind: "page", URL: "/dashboard/"},
	}
}
