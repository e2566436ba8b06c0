package models

import (
	"errors"
	"time"

	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/restify"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Employee role constants
const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

// Employee is the tenant root. Chains, sessions, chats, meetings and
// notifications all reference it by employee_id; referential integrity is
// maintained by the callers, not the database.
type Employee struct {
	EmployeeID   string         `gorm:"column:employee_id;size:12;primaryKey" json:"employee_id"`
	Name         string         `gorm:"column:name;size:255;not null" json:"name"`
	Email        string         `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash *string        `gorm:"column:password_hash;size:255" json:"-"`
	Role         string         `gorm:"column:role;size:20;not null;index;check:role IN ('employee','hr','admin')" json:"role"`
	ManagerID    *string        `gorm:"column:manager_id;size:12;index" json:"manager_id"`
	IsBlocked    bool           `gorm:"column:is_blocked;default:0" json:"is_blocked"`
	BlockedAt    *time.Time     `gorm:"column:blocked_at" json:"blocked_at,omitempty"`
	BlockedBy    *string        `gorm:"column:blocked_by;size:12" json:"blocked_by,omitempty"`
	MeetingLink  *string        `gorm:"column:meeting_link;size:500" json:"meeting_link,omitempty"`
	CompanyData  datatypes.JSON `gorm:"column:company_data;type:json" json:"company_data"`
	LastPing     *time.Time     `gorm:"column:last_ping" json:"last_ping,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	restify.API
}

func (Employee) TableName() string {
	return "employees"
}

// CompanyData is the embedded behavioral/HR time series used by the
// anomaly-detection selector and the report service.
type CompanyData struct {
	Activity    []ActivityRecord    `json:"activity"`
	Leave       []LeaveRecord       `json:"leave"`
	Onboarding  []OnboardingRecord  `json:"onboarding"`
	Performance []PerformanceRecord `json:"performance"`
	Rewards     []RewardRecord      `json:"rewards"`
	Vibemeter   []VibeRecord        `json:"vibemeter"`
}

type ActivityRecord struct {
	Date              string  `json:"Date"`
	TeamsMessagesSent int     `json:"Teams_Messages_Sent"`
	EmailsSent        int     `json:"Emails_Sent"`
	MeetingsAttended  int     `json:"Meetings_Attended"`
	WorkHours         float64 `json:"Work_Hours"`
}

type LeaveRecord struct {
	LeaveType      string `json:"Leave_Type"`
	LeaveDays      int    `json:"Leave_Days"`
	LeaveStartDate string `json:"Leave_Start_Date"`
	LeaveEndDate   string `json:"Leave_End_Date"`
}

type OnboardingRecord struct {
	JoiningDate              string `json:"Joining_Date"`
	OnboardingFeedback       string `json:"Onboarding_Feedback"`
	MentorAssigned           bool   `json:"Mentor_Assigned"`
	InitialTrainingCompleted bool   `json:"Initial_Training_Completed"`
}

type PerformanceRecord struct {
	ReviewPeriod           string `json:"Review_Period"`
	PerformanceRating      int    `json:"Performance_Rating"`
	ManagerFeedback        string `json:"Manager_Feedback"`
	PromotionConsideration bool   `json:"Promotion_Consideration"`
}

type RewardRecord struct {
	AwardType    string `json:"Award_Type"`
	AwardDate    string `json:"Award_Date"`
	RewardPoints int    `json:"Reward_Points"`
}

type VibeRecord struct {
	ResponseDate string `json:"Response_Date"`
	VibeScore    int    `json:"Vibe_Score"`
	EmotionZone  string `json:"Emotion_Zone"`
}

// CreateEmployee persists a new employee record.
func CreateEmployee(e *Employee) error {
	return db.Create(e).Error
}

// SaveEmployee persists employee mutations.
func SaveEmployee(e *Employee) error {
	e.UpdatedAt = time.Now().UTC()
	return db.Save(e).Error
}

// DeleteEmployee removes an employee record permanently.
func DeleteEmployee(employeeID string) error {
	result := db.Where("employee_id = ?", employeeID).Delete(&Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetEmployeeByID fetches one employee by business identifier.
func GetEmployeeByID(employeeID string) (*Employee, error) {
	var employee Employee
	err := db.Where("employee_id = ?", employeeID).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// GetEmployeeByEmail fetches one employee by login email.
func GetEmployeeByEmail(email string) (*Employee, error) {
	var employee Employee
	err := db.Where("email = ?", email).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// GetEmployeesByManager lists employees assigned to the given HR.
func GetEmployeesByManager(managerID string) ([]Employee, error) {
	var employees []Employee
	err := db.Where("manager_id = ?", managerID).Find(&employees).Error
	return employees, err
}

// GetAllEmployees lists every employee record.
func GetAllEmployees() ([]Employee, error) {
	var employees []Employee
	err := db.Find(&employees).Error
	return employees, err
}
