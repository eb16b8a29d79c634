package services

import (
	"context"
	"strings"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/app/repository"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/apperr"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/content"
)

// SettingInput replaces every site setting at once.
type SettingInput struct {
	SiteTitle            string `json:"site_title" validate:"required,max=255"`
	BlogEnabled          bool   `json:"blog_enabled"`
	EventsEnabled        bool   `json:"events_enabled"`
	FAQsEnabled          bool   `json:"faqs_enabled"`
	ResourcesEnabled     bool   `json:"resources_enabled"`
	MeetingsEnabled      bool   `json:"meetings_enabled"`
	RosterEnabled        bool   `json:"roster_enabled"`
	CopyrightEnabled     bool   `json:"copyright_enabled"`
	CopyrightText        string `json:"copyright_text" validate:"max=255"`
	ContactNotifyEnabled bool   `json:"contact_notify_enabled"`
	ContactNotifyEmails  string `json:"contact_notify_emails" validate:"max=2000"`
	AlertEnabled         bool   `json:"alert_enabled"`
	AlertLevel           string `json:"alert_level" validate:"omitempty,oneof=info warning danger"`
	AlertMessage         string `json:"alert_message" validate:"max=2000"`
}

type SettingService struct {
	repo  repository.SettingRepository
	cache *content.Cache
}

// Get returns the settings row, creating it with defaults on first use.
func (s *SettingService) Get(ctx context.Context) (*models.Setting, error) {
	return getOne(ctx, s.cache, content.EntitySetting, models.SettingID, "Settings not found", s.repo.EnsureDefaults)
}

func (s *SettingService) Public(ctx context.Context) (models.PublicSetting, error) {
	setting, err := s.Get(ctx)
	if err != nil {
		return models.PublicSetting{}, err
	}
	return setting.Public(), nil
}

func (s *SettingService) Update(ctx context.Context, in SettingInput) (*models.Setting, error) {
	if err := apperr.ValidateStruct(in); err != nil {
		return nil, err
	}
	setting, err := s.repo.EnsureDefaults(ctx)
	if err != nil {
		return nil, storeErr(err, "Settings not found")
	}

	setting.SiteTitle = strings.TrimSpace(in.SiteTitle)
	setting.BlogEnabled = in.BlogEnabled
	setting.EventsEnabled = in.EventsEnabled
	setting.FAQsEnabled = in.FAQsEnabled
	setting.ResourcesEnabled = in.ResourcesEnabled
	setting.MeetingsEnabled = in.MeetingsEnabled
	setting.RosterEnabled = in.RosterEnabled
	setting.CopyrightEnabled = in.CopyrightEnabled
	setting.CopyrightText = strings.TrimSpace(in.CopyrightText)
	setting.ContactNotifyEnabled = in.ContactNotifyEnabled
	setting.ContactNotifyEmails = strings.TrimSpace(in.ContactNotifyEmails)
	setting.AlertEnabled = in.AlertEnabled
	setting.AlertLevel = in.AlertLevel
	if setting.AlertLevel == "" {
		setting.AlertLevel = models.AlertLevelInfo
	}
	setting.AlertMessage = strings.TrimSpace(in.AlertMessage)

	if setting.ContactNotifyEnabled {
		for _, addr := range setting.NotificationRecipients() {
			if err := apperr.ValidateVar(addr, "email"); err != nil {
				return nil, apperr.Field("contact_notify_emails", addr+" is not a valid email address")
			}
		}
	}

	if err := s.repo.Save(ctx, setting); err != nil {
		return nil, storeErr(err, "Settings not found")
	}
	s.cache.Invalidate(ctx, content.Invalidation{
		Entity: content.EntitySetting,
		Items:  []interface{}{models.SettingID},
	})
	return setting, nil
}

// Recipients is the contact notification list, empty when notifications are off.
func (s *SettingService) Recipients(ctx context.Context) []string {
	setting, err := s.Get(ctx)
	if err != nil {
		return nil
	}
	return setting.NotificationRecipients()
}
