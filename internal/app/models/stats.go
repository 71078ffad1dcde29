package models

// Dashboard is the admin landing page summary
type Dashboard struct {
	TotalStudents     int64     `json:"totalStudents"`
	TotalHostels      int64     `json:"totalHostels"`
	TotalPGs          int64     `json:"totalPGs"`
	PendingAllotments int64     `json:"pendingAllotments"`
	PendingBookings   int64     `json:"pendingBookings"`
	TotalReviews      int64     `json:"totalReviews"`
	RecentStudents    []Student `json:"recentStudents"`
	RecentAllotments  []Booking `json:"recentAllotments"`
}

// CountByLabel is one row of a GROUP BY count
type CountByLabel struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// StudentStats summarises registrations
type StudentStats struct {
	Total    int64          `json:"total"`
	Active   int64          `json:"active"`
	Verified int64          `json:"verified"`
	ByCourse []CountByLabel `json:"byCourse"`
	ByYear   []CountByLabel `json:"byYear"`
}

// PropertyStats summarises inventory of one property type
type PropertyStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Capacity  int64 `json:"capacity"`
	Available int64 `json:"available"`
}

// InventoryStats covers both property types
type InventoryStats struct {
	Hostels PropertyStats `json:"hostels"`
	PGs     PropertyStats `json:"pgs"`
}

// BookingStats counts bookings by status
type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Cancelled int64 `json:"cancelled"`
}
