package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.uber.org/zap"

	"project_resident/internal/entities"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var ErrDeviceNotPaired = errors.New("whatsapp device is not paired")

// WhatsAppDevice is the single platform device, paired by an admin through a
// QR code, that sends owner notifications to business phone numbers.
type WhatsAppDevice struct {
	client *whatsmeow.Client
	log    *zap.Logger

	qrLock sync.RWMutex
	qrCode string
}

func NewWhatsAppDevice(ctx context.Context, dbPath string, log *zap.Logger) (*WhatsAppDevice, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create device directory: %w", err)
		}
	}

	container, err := sqlstore.New(ctx, "sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)", newWALogger(log, "whatsapp.db"))
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load device: %w", err)
	}

	client := whatsmeow.NewClient(deviceStore, newWALogger(log, "whatsapp.client"))
	return &WhatsAppDevice{client: client, log: log}, nil
}

// Connect resumes a stored session, or starts pairing and publishes QR codes
// for the admin endpoint until the device is linked.
func (d *WhatsAppDevice) Connect(ctx context.Context) error {
	if d.client.Store.ID != nil {
		if err := d.client.Connect(); err != nil {
			return fmt.Errorf("whatsapp connect: %w", err)
		}
		d.log.Info("whatsapp device connected", zap.String("phone", d.client.Store.ID.User))
		return nil
	}
	return d.pair(ctx)
}

func (d *WhatsAppDevice) pair(ctx context.Context) error {
	qrChan, err := d.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("whatsapp qr channel: %w", err)
	}
	if err := d.client.Connect(); err != nil {
		return fmt.Errorf("whatsapp connect: %w", err)
	}

	go func() {
		for evt := range qrChan {
			if evt.Event == "code" {
				d.setQR(evt.Code)
				d.log.Info("whatsapp pairing code refreshed")
				continue
			}
			d.setQR("")
			d.log.Info("whatsapp login event", zap.String("event", evt.Event))
		}
	}()
	return nil
}

func (d *WhatsAppDevice) setQR(code string) {
	d.qrLock.Lock()
	d.qrCode = code
	d.qrLock.Unlock()
}

// QR returns the pending pairing code, or "" once paired.
func (d *WhatsAppDevice) QR() string {
	d.qrLock.RLock()
	defer d.qrLock.RUnlock()
	return d.qrCode
}

func (d *WhatsAppDevice) Status() entities.DeviceStatus {
	st := entities.DeviceStatus{
		Enabled:   true,
		Connected: d.client.IsConnected(),
		QRPending: d.QR() != "",
	}
	if id := d.client.Store.ID; id != nil {
		st.LoggedIn = true
		st.Phone = id.User
		st.Name = d.client.Store.PushName
	}
	return st
}

// Logout unlinks the device and immediately starts a new pairing session.
func (d *WhatsAppDevice) Logout(ctx context.Context) error {
	d.setQR("")
	if d.client.Store.ID == nil {
		return nil
	}

	if err := d.client.Logout(ctx); err != nil {
		return fmt.Errorf("whatsapp logout: %w", err)
	}
	d.client.Disconnect()

	// The QR channel must outlive the admin request that triggered the logout.
	if err := d.pair(context.WithoutCancel(ctx)); err != nil {
		d.log.Warn("whatsapp re-pairing failed", zap.Error(err))
		return err
	}
	return nil
}

func (d *WhatsAppDevice) Close() {
	d.client.Disconnect()
}

func (d *WhatsAppDevice) Notify(ctx context.Context, b *entities.Business, text string) error {
	number := PhoneDigits(b.Phone)
	if number == "" {
		return nil
	}
	if !d.client.IsConnected() || d.client.Store.ID == nil {
		return ErrDeviceNotPaired
	}

	jid, err := types.ParseJID(number + "@s.whatsapp.net")
	if err != nil {
		return fmt.Errorf("invalid number format: %w", err)
	}
	if _, err := d.client.SendMessage(ctx, jid, &waProto.Message{Conversation: &text}); err != nil {
		return fmt.Errorf("whatsapp send to business %d: %w", b.ID, err)
	}
	d.log.Debug("whatsapp notification sent", zap.Int("business_id", b.ID))
	return nil
}

// PhoneDigits strips everything but digits from a free-form phone number.
func PhoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}
