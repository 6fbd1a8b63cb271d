package dto

type DashboardCountByGroup struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

type DashboardDTO struct {
	TotalRequests   uint64                  `json:"total_requests"`
	OpenRequests    uint64                  `json:"open_requests"`
	OverdueRequests uint64                  `json:"overdue_requests"`
	CriticalOpen    uint64                  `json:"critical_open"`
	ByStage         []DashboardCountByGroup `json:"by_stage"`
	ByPriority      []DashboardCountByGroup `json:"by_priority"`
	ByTeam          []DashboardCountByGroup `json:"by_team"`
}
