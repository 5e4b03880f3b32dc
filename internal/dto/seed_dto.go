package dto

// SeedSummary reports how many demo entities the seeding run created.
type SeedSummary struct {
	Classes     int `json:"classes"`
	Subjects    int `json:"subjects"`
	SchoolYears int `json:"school_years"`
	Trimesters  int `json:"trimesters"`
	Periods     int `json:"periods"`
	Students    int `json:"students"`
	Scores      int `json:"scores"`
}
