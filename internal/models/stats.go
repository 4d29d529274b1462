package models

import "time"

type DashboardStats struct {
	TotalCoaches     int `json:"total_coaches"`
	PendingCoaches   int `json:"pending_coaches"`
	ApprovedCoaches  int `json:"approved_coaches"`
	RejectedCoaches  int `json:"rejected_coaches"`
	SuspendedCoaches int `json:"suspended_coaches"`
	TotalCourses     int `json:"total_courses"`
	PendingCourses   int `json:"pending_courses"`
}

type StatsSnapshot struct {
	Stats       DashboardStats `json:"stats"`
	RefreshedAt time.Time      `json:"refreshed_at"`
}

type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}
