package models

// GroupCount is one bucket of a grouped count
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Statistics summarizes the student population
type Statistics struct {
	Total         int64        `json:"total"`
	BySex         []GroupCount `json:"bySex"`
	ByGradeLevel  []GroupCount `json:"byGradeLevel"`
	NewLast30Days int64        `json:"newLast30Days"`
	ByServiceType []GroupCount `json:"byServiceType"`
}
