package dto

import "time"

type StartInput struct {
	MaterialID int64
}

type UpdateInput struct {
	ID         int64
	MaterialID int64
	StartTime  time.Time
	EndTime    *time.Time
}

type ListInput struct {
	Since      *time.Time
	Until      *time.Time
	MaterialID int64
	Ascending  bool
	Limit      int
}

type SessionOutput struct {
	ID           int64
	MaterialID   int64
	MaterialName string
	CategoryID   int64
	CategoryName string
	StartTime    time.Time
	EndTime      *time.Time
	Open         bool
	// Minutes is zero while the session is open.
	Minutes        int
	RunningMinutes int
}

type TotalsInput struct {
	Window string
	Days   int
}

type RollupOutput struct {
	ID      int64
	Name    string
	Minutes int
}

type TotalsOutput struct {
	Window     string
	Label      string
	Since      *time.Time
	Minutes    int
	ByMaterial []RollupOutput
	ByCategory []RollupOutput
}
