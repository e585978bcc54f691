package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	mailjet "github.com/mailjet/mailjet-apiv3-go"

	"miami-getaway-server/models"
	"miami-getaway-server/storage"
)

// NotificationCooldown is the minimum interval between sends of the
// same notification type for the same reservation.
const NotificationCooldown = 60 * time.Second

// ErrCooldown is returned when a dispatch is blocked by the cooldown
// window; Remaining tells the caller how long until the next attempt.
type ErrCooldown struct {
	Remaining time.Duration
}

func (e ErrCooldown) Error() string {
	return fmt.Sprintf("notification already sent, retry in %d seconds", int(e.Remaining.Seconds()))
}

// CooldownStore is the at-most-once dispatch guard keyed by
// (reservationID, type). Acquire returns false with the remaining
// window when the key is still cooling down; Release gives the window
// back when the send it guarded did not happen.
type CooldownStore interface {
	Acquire(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error)
	Release(ctx context.Context, key string) error
}

// RedisCooldownStore enforces the cooldown with SET NX PX so the guard
// holds across server instances and restarts.
type RedisCooldownStore struct {
	Client *redis.Client
}

func (s *RedisCooldownStore) Acquire(ctx context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	ok, err := s.Client.SetNX(ctx, "cooldown:"+key, "1", window).Result()
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, 0, nil
	}
	remaining, err := s.Client.PTTL(ctx, "cooldown:"+key).Result()
	if err != nil || remaining < 0 {
		remaining = window
	}
	return false, remaining, nil
}

func (s *RedisCooldownStore) Release(ctx context.Context, key string) error {
	return s.Client.Del(ctx, "cooldown:"+key).Err()
}

// MemoryCooldownStore is the in-process fallback used in tests and
// redis-less development. Expired entries are pruned on each Acquire.
type MemoryCooldownStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryCooldownStore() *MemoryCooldownStore {
	return &MemoryCooldownStore{entries: map[string]time.Time{}, now: time.Now}
}

func (s *MemoryCooldownStore) Acquire(_ context.Context, key string, window time.Duration) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, expires := range s.entries {
		if now.After(expires) {
			delete(s.entries, k)
		}
	}
	if expires, ok := s.entries[key]; ok && now.Before(expires) {
		return false, expires.Sub(now), nil
	}
	s.entries[key] = now.Add(window)
	return true, 0, nil
}

func (s *MemoryCooldownStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Mailer sends one email. Satisfied by MailjetMailer in production and
// by fakes in tests.
type Mailer interface {
	Send(toEmail, toName, subject, textBody string) error
}

// MailjetMailer sends through the Mailjet v3.1 API.
type MailjetMailer struct{}

func (m *MailjetMailer) Send(toEmail, toName, subject, textBody string) error {
	client := mailjet.NewMailjetClient(os.Getenv("MJ_APIKEY_PUBLIC"), os.Getenv("MJ_APIKEY_PRIVATE"))
	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: os.Getenv("MJ_SENDER_EMAIL"),
				Name:  "Miami GetAway",
			},
			To: &mailjet.RecipientsV31{
				mailjet.RecipientV31{Email: toEmail, Name: toName},
			},
			Subject:  subject,
			TextPart: textBody,
		},
	}}
	_, err := client.SendMailV31(&messages)
	return err
}

// NotificationService dispatches reservation emails behind the cooldown
// guard, logging every attempt as sending -> sent | failed.
type NotificationService struct {
	Cooldowns CooldownStore
	Mail      Mailer
}

func NewNotificationService(cooldowns CooldownStore, mail Mailer) *NotificationService {
	return &NotificationService{Cooldowns: cooldowns, Mail: mail}
}

// SendReservationNotification sends one of the reservation email types
// (confirmation, status_update, payment). Returns ErrCooldown when the
// (reservation, type) pair is still inside the window; the cooldown for
// one type never blocks another type for the same reservation.
func (ns *NotificationService) SendReservationNotification(ctx context.Context, res *models.Reservation, notificationType string) error {
	if res.ClientEmail == "" {
		return fmt.Errorf("reservation %d has no client email", res.ID)
	}

	key := fmt.Sprintf("reservation:%d:%s", res.ID, notificationType)
	ok, remaining, err := ns.Cooldowns.Acquire(ctx, key, NotificationCooldown)
	if err != nil {
		return fmt.Errorf("cooldown check failed: %w", err)
	}
	if !ok {
		return ErrCooldown{Remaining: remaining}
	}

	entry := models.NotificationLog{
		ReservationID: res.ID,
		Type:          notificationType,
		State:         "sending",
		Recipient:     res.ClientEmail,
	}
	storage.DB.Create(&entry)

	subject, body := notificationContent(res, notificationType)
	sendErr := ns.Mail.Send(res.ClientEmail, res.ClientName, subject, body)

	if sendErr != nil {
		entry.State = "failed"
		entry.Error = sendErr.Error()
		storage.DB.Save(&entry)
		// A failed send gives the window back: retries are manual and
		// must not wait out a cooldown nothing was delivered for.
		if relErr := ns.Cooldowns.Release(ctx, key); relErr != nil {
			log.Printf("failed to release cooldown %s: %v", key, relErr)
		}
		return fmt.Errorf("failed to send %s email: %w", notificationType, sendErr)
	}

	now := time.Now()
	entry.State = "sent"
	entry.SentAt = &now
	storage.DB.Save(&entry)
	return nil
}

func notificationContent(res *models.Reservation, notificationType string) (string, string) {
	switch notificationType {
	case "status_update":
		return "Your reservation status changed",
			fmt.Sprintf("Hello %s,\n\nYour reservation #%d is now %s.\nCheck-in: %s\nCheck-out: %s\n",
				res.ClientName, res.ID, res.Status,
				res.CheckIn.Format("Jan 2, 2006"), res.CheckOut.Format("Jan 2, 2006"))
	case "payment":
		return "Payment received",
			fmt.Sprintf("Hello %s,\n\nWe received a payment on reservation #%d.\nPaid so far: $%.2f\nRemaining balance: $%.2f\n",
				res.ClientName, res.ID, res.AmountPaid, res.AmountDue)
	default: // confirmation
		return "Your reservation is confirmed",
			fmt.Sprintf("Hello %s,\n\nYour reservation #%d is confirmed.\nCheck-in: %s\nCheck-out: %s\nNights: %d\nTotal: $%.2f\nAmount due: $%.2f\n",
				res.ClientName, res.ID,
				res.CheckIn.Format("Jan 2, 2006"), res.CheckOut.Format("Jan 2, 2006"),
				res.Nights, res.TotalAmount, res.AmountDue)
	}
}

// SendSummaryEmail mails a monthly summary report. Best-effort side
// call: failures are logged by the caller, never rolled back into the
// generate step.
func (ns *NotificationService) SendSummaryEmail(toEmail string, summary *models.MonthlySummary) error {
	subject := fmt.Sprintf("Monthly summary %02d/%d", summary.Month, summary.Year)
	body := fmt.Sprintf(
		"Summary for %02d/%d\n\nReservations: %d\nNights: %d\nRevenue: $%.2f\nTaxes: $%.2f\nCollected: $%.2f\nOutstanding: $%.2f\n",
		summary.Month, summary.Year,
		summary.TotalReservations, summary.TotalNights,
		summary.TotalRevenue, summary.TotalTaxes, summary.TotalPaid, summary.TotalOutstanding)
	return ns.Mail.Send(toEmail, "", subject, body)
}

// DefaultNotificationService wires the production stores; main calls
// this after storage initialization.
func DefaultNotificationService() *NotificationService {
	var cooldowns CooldownStore
	if storage.Redis != nil {
		cooldowns = &RedisCooldownStore{Client: storage.Redis}
	} else {
		log.Println("redis unavailable, using in-memory cooldown store")
		cooldowns = NewMemoryCooldownStore()
	}
	return NewNotificationService(cooldowns, &MailjetMailer{})
}
