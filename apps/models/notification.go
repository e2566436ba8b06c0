package models

import (
	"time"

	"github.com/getevo/evo/v2/lib/db"
	"github.com/getevo/evo/v2/lib/log"
	"github.com/getevo/restify"
)

// Notification status constants
const (
	NotificationStatusUnread = "unread"
	NotificationStatusRead   = "read"
)

// Notification is an advisory in-app message. Records are garbage-collected
// by the cleanup job after the retention window.
type Notification struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	EmployeeID  string    `gorm:"column:employee_id;size:12;not null;index" json:"employee_id"`
	Title       string    `gorm:"column:title;size:255;not null" json:"title"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	Status      string    `gorm:"column:status;size:10;not null;default:unread;index;check:status IN ('read','unread')" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	restify.API
}

func (Notification) TableName() string {
	return "notifications"
}

// CreateNotification persists an unread notification for an employee.
func CreateNotification(employeeID, title, description string) (*Notification, error) {
	notification := &Notification{
		EmployeeID:  employeeID,
		Title:       title,
		Description: description,
		Status:      NotificationStatusUnread,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.Create(notification).Error; err != nil {
		log.Error("[models] failed to create notification for employee %s: %v", employeeID, err)
		return nil, err
	}
	return notification, nil
}

// DeleteNotification removes one notification. Saga compensation only.
func DeleteNotification(id uint) error {
	return db.Where("id = ?", id).Delete(&Notification{}).Error
}

// GetNotificationsByEmployee lists an employee's notifications, newest first.
func GetNotificationsByEmployee(employeeID string) ([]Notification, error) {
	var notifications []Notification
	err := db.Where("employee_id = ?", employeeID).Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead flips one notification to read.
func MarkNotificationRead(id uint, employeeID string) error {
	result := db.Model(&Notification{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Update("status", NotificationStatusRead)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteNotificationsBefore removes notifications created before the cutoff
// and returns how many were deleted.
func DeleteNotificationsBefore(cutoff time.Time) (int64, error) {
	result := db.Where("created_at < ?", cutoff).Delete(&Notification{})
	return result.RowsAffected, result.Error
}
