package models

import (
	"strings"
	"time"
)

// SettingID is the primary key of the single settings row.
const SettingID uint = 1

const (
	AlertLevelInfo    = "info"
	AlertLevelWarning = "warning"
	AlertLevelDanger  = "danger"
)

// Feature names accepted by Setting.FeatureEnabled.
const (
	FeatureBlog      = "blog"
	FeatureEvents    = "events"
	FeatureFAQs      = "faqs"
	FeatureResources = "resources"
	FeatureMeetings  = "meetings"
	FeatureRoster    = "roster"
)

// Setting holds the site-wide switches. Exactly one row exists, with id SettingID.
type Setting struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	SiteTitle            string    `gorm:"type:varchar(255)" json:"site_title"`
	BlogEnabled          bool      `gorm:"default:true" json:"blog_enabled"`
	EventsEnabled        bool      `gorm:"default:true" json:"events_enabled"`
	FAQsEnabled          bool      `gorm:"column:faqs_enabled;default:true" json:"faqs_enabled"`
	ResourcesEnabled     bool      `gorm:"default:true" json:"resources_enabled"`
	MeetingsEnabled      bool      `gorm:"default:true" json:"meetings_enabled"`
	RosterEnabled        bool      `gorm:"default:true" json:"roster_enabled"`
	CopyrightEnabled     bool      `gorm:"default:true" json:"copyright_enabled"`
	CopyrightText        string    `gorm:"type:varchar(255)" json:"copyright_text"`
	ContactNotifyEnabled bool      `gorm:"default:false" json:"contact_notify_enabled"`
	ContactNotifyEmails  string    `gorm:"type:text" json:"contact_notify_emails"`
	AlertEnabled         bool      `gorm:"default:false" json:"alert_enabled"`
	AlertLevel           string    `gorm:"type:varchar(20);default:'info'" json:"alert_level"`
	AlertMessage         string    `gorm:"type:text" json:"alert_message"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// DefaultSetting is the row written when the settings table is empty.
func DefaultSetting() Setting {
	return Setting{
		ID:               SettingID,
		SiteTitle:        "District 5B",
		BlogEnabled:      true,
		EventsEnabled:    true,
		FAQsEnabled:      true,
		ResourcesEnabled: true,
		MeetingsEnabled:  true,
		RosterEnabled:    true,
		CopyrightEnabled: true,
		CopyrightText:    "District 5B",
		AlertLevel:       AlertLevelInfo,
	}
}

// FeatureEnabled reports whether the named public module is switched on.
// Unknown names are treated as enabled.
func (s *Setting) FeatureEnabled(feature string) bool {
	switch feature {
	case FeatureBlog:
		return s.BlogEnabled
	case FeatureEvents:
		return s.EventsEnabled
	case FeatureFAQs:
		return s.FAQsEnabled
	case FeatureResources:
		return s.ResourcesEnabled
	case FeatureMeetings:
		return s.MeetingsEnabled
	case FeatureRoster:
		return s.RosterEnabled
	default:
		return true
	}
}

// NotificationRecipients splits ContactNotifyEmails on commas, semicolons and
// whitespace. It returns nil when notifications are off.
func (s *Setting) NotificationRecipients() []string {
	if !s.ContactNotifyEnabled {
		return nil
	}
	fields := strings.FieldsFunc(s.ContactNotifyEmails, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
	var out []string
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		addr := strings.ToLower(strings.TrimSpace(f))
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

// PublicSetting is the subset of Setting exposed to anonymous visitors.
type PublicSetting struct {
	SiteTitle        string `json:"site_title"`
	BlogEnabled      bool   `json:"blog_enabled"`
	EventsEnabled    bool   `json:"events_enabled"`
	FAQsEnabled      bool   `json:"faqs_enabled"`
	ResourcesEnabled bool   `json:"resources_enabled"`
	MeetingsEnabled  bool   `json:"meetings_enabled"`
	RosterEnabled    bool   `json:"roster_enabled"`
	CopyrightEnabled bool   `json:"copyright_enabled"`
	CopyrightText    string `json:"copyright_text,omitempty"`
	AlertEnabled     bool   `json:"alert_enabled"`
	AlertLevel       string `json:"alert_level,omitempty"`
	AlertMessage     string `json:"alert_message,omitempty"`
}

func (s *Setting) Public() PublicSetting {
	p := PublicSetting{
		SiteTitle:        s.SiteTitle,
		BlogEnabled:      s.BlogEnabled,
		EventsEnabled:    s.EventsEnabled,
		FAQsEnabled:      s.FAQsEnabled,
		ResourcesEnabled: s.ResourcesEnabled,
		MeetingsEnabled:  s.MeetingsEnabled,
		RosterEnabled:    s.RosterEnabled,
		CopyrightEnabled: s.CopyrightEnabled,
		AlertEnabled:     s.AlertEnabled,
	}
	if s.CopyrightEnabled {
		p.CopyrightText = s.CopyrightText
	}
	if s.AlertEnabled {
		p.AlertLevel = s.AlertLevel
		p.AlertMessage = s.AlertMessage
	}
	return p
}
