package dashboard

// AdminStats are the aggregate counts behind the admin dashboard cards.
type AdminStats struct {
	TotalUsers        int64 `json:"total_users"`
	ActiveUsers       int64 `json:"active_users"`
	SuspendedUsers    int64 `json:"suspended_users"`
	Doctors           int64 `json:"doctors"`
	Patients          int64 `json:"patients"`
	TotalScans        int64 `json:"total_scans"`
	TotalAppointments int64 `json:"total_appointments"`
}

// DoctorStats are the aggregate counts behind the doctor dashboard cards.
type DoctorStats struct {
	TotalScans        int64 `json:"total_scans"`
	ScansThisWeek     int64 `json:"scans_this_week"`
	AbnormalScans     int64 `json:"abnormal_scans"`
	Patients          int64 `json:"patients"`
	TodayAppointments int64 `json:"today_appointments"`
}
