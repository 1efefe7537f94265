package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"liftout/models"
	"liftout/utils"

	"gorm.io/gorm"
)

// NotifyWorker drains the notification queue and delivers emails
type NotifyWorker struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewNotifyWorker(db *gorm.DB, logger *log.Logger) *NotifyWorker {
	return &NotifyWorker{
		DB:     db,
		Logger: logger,
	}
}

func (nw *NotifyWorker) Start(ctx context.Context) {
	time.Sleep(10 * time.Second)

	nw.Logger.Println("Notification worker started")

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			nw.Logger.Println("Notification worker shutting down...")
			return
		case <-ticker.C:
			nw.processQueue()
		}
	}
}

func (nw *NotifyWorker) processQueue() {
	var pending []models.Notification
	if err := nw.DB.Where("sent_at IS NULL").
		Order("created_at ASC").Limit(50).Find(&pending).Error; err != nil {
		nw.Logger.Printf("Error fetching pending notifications: %v", err)
		return
	}

	for _, notification := range pending {
		if err := nw.deliver(notification); err != nil {
			nw.Logger.Printf("Error delivering notification %d: %v", notification.ID, err)
			nw.DB.Model(&notification).Update("last_error", err.Error())
			continue
		}

		now := time.Now()
		if err := nw.DB.Model(&notification).Updates(map[string]interface{}{
			"sent_at":    now,
			"last_error": "",
		}).Error; err != nil {
			nw.Logger.Printf("Error marking notification %d sent: %v", notification.ID, err)
		}
	}
}

func (nw *NotifyWorker) deliver(notification models.Notification) error {
	var data map[string]string
	if err := json.Unmarshal([]byte(notification.Payload), &data); err != nil {
		data = map[string]string{}
	}

	return utils.SendEmail(utils.EmailData{
		Subject:  notification.Subject,
		To:       []string{notification.Email},
		Template: notification.Kind,
		Data:     data,
	})
}
