package dto

// SubmitVacationRequest files one ranked week-off request for a staff
// member. Dates use ISO format (YYYY-MM-DD).
type SubmitVacationRequest struct {
	StaffID   string `json:"staff_id" validate:"required"`
	Year      int    `json:"year" validate:"required,min=2000,max=2100"`
	Month     int    `json:"month" validate:"required,min=1,max=12"`
	Rank      int    `json:"rank" validate:"required,min=1,max=3"`
	WeekStart string `json:"week_start" validate:"required,datetime=2006-01-02"`
	WeekEnd   string `json:"week_end" validate:"required,datetime=2006-01-02"`
}
