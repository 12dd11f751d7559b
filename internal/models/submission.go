package models

import (
	"time"
)

// PrayerStatus records how a single prayer was performed.
// Valid values: "completed", "masbuq", "munfarid".
type PrayerStatus string

const (
	PrayerCompleted PrayerStatus = "completed"
	PrayerMasbuq    PrayerStatus = "masbuq"   // joined the congregation late
	PrayerMunfarid  PrayerStatus = "munfarid" // prayed alone
)

// PrayerStatuses lists the statuses in display order.
var PrayerStatuses = []PrayerStatus{PrayerCompleted, PrayerMasbuq, PrayerMunfarid}

// Valid reports whether s is one of the known statuses.
func (s PrayerStatus) Valid() bool {
	switch s {
	case PrayerCompleted, PrayerMasbuq, PrayerMunfarid:
		return true
	}
	return false
}

// PrayerNames lists the five daily prayers in order.
var PrayerNames = []string{"fajr", "zuhr", "asr", "maghrib", "isha"}

// ActivityNames lists the six boolean activities in order.
var ActivityNames = []string{"tilawat", "dua", "sadaqah", "zikr", "masnunDua", "bookReading"}

// DateLayout is the canonical calendar date format used for Submission.Date.
const DateLayout = "2006-01-02"

// Prayers holds exactly one status per daily prayer.
type Prayers struct {
	Fajr    PrayerStatus `bson:"fajr" json:"fajr" validate:"required,prayer_status"`
	Zuhr    PrayerStatus `bson:"zuhr" json:"zuhr" validate:"required,prayer_status"`
	Asr     PrayerStatus `bson:"asr" json:"asr" validate:"required,prayer_status"`
	Maghrib PrayerStatus `bson:"maghrib" json:"maghrib" validate:"required,prayer_status"`
	Isha    PrayerStatus `bson:"isha" json:"isha" validate:"required,prayer_status"`
}

// Statuses returns the statuses keyed by prayer name.
func (p Prayers) Statuses() map[string]PrayerStatus {
	return map[string]PrayerStatus{
		"fajr":    p.Fajr,
		"zuhr":    p.Zuhr,
		"asr":     p.Asr,
		"maghrib": p.Maghrib,
		"isha":    p.Isha,
	}
}

// DefaultPrayers is the state of a fresh form: every prayer munfarid.
func DefaultPrayers() Prayers {
	return Prayers{
		Fajr:    PrayerMunfarid,
		Zuhr:    PrayerMunfarid,
		Asr:     PrayerMunfarid,
		Maghrib: PrayerMunfarid,
		Isha:    PrayerMunfarid,
	}
}

// Submission is one user's recorded amal for one calendar date.
// At most one Submission exists per (UserID, Date); this is kept by
// callers querying before they write, not by the store.
type Submission struct {
	ID     string `bson:"-" json:"id"`
	UserID string `bson:"user_id" json:"user_id"`
	Date   string `bson:"date" json:"date"` // YYYY-MM-DD

	Prayers Prayers `bson:"prayers" json:"prayers"`

	Tilawat            bool   `bson:"tilawat" json:"tilawat"`
	TilawatComment     string `bson:"tilawat_comment" json:"tilawat_comment"`
	Dua                bool   `bson:"dua" json:"dua"`
	DuaComment         string `bson:"dua_comment" json:"dua_comment"`
	Sadaqah            bool   `bson:"sadaqah" json:"sadaqah"`
	SadaqahComment     string `bson:"sadaqah_comment" json:"sadaqah_comment"`
	Zikr               bool   `bson:"zikr" json:"zikr"`
	ZikrComment        string `bson:"zikr_comment" json:"zikr_comment"`
	MasnunDua          bool   `bson:"masnun_dua" json:"masnun_dua"`
	MasnunDuaComment   string `bson:"masnun_dua_comment" json:"masnun_dua_comment"`
	BookReading        bool   `bson:"book_reading" json:"book_reading"`
	BookReadingComment string `bson:"book_reading_comment" json:"book_reading_comment"`

	SleepTime string `bson:"sleep_time" json:"sleep_time"`
	Comments  string `bson:"comments" json:"comments"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Activities returns the six activity flags keyed by activity name.
func (s Submission) Activities() map[string]bool {
	return map[string]bool{
		"tilawat":     s.Tilawat,
		"dua":         s.Dua,
		"sadaqah":     s.Sadaqah,
		"zikr":        s.Zikr,
		"masnunDua":   s.MasnunDua,
		"bookReading": s.BookReading,
	}
}

// SubmissionInput is the user-editable content of a new submission.
type SubmissionInput struct {
	Prayers Prayers `json:"prayers" validate:"required"`

	Tilawat            bool   `json:"tilawat"`
	TilawatComment     string `json:"tilawat_comment" validate:"max=1000"`
	Dua                bool   `json:"dua"`
	DuaComment         string `json:"dua_comment" validate:"max=1000"`
	Sadaqah            bool   `json:"sadaqah"`
	SadaqahComment     string `json:"sadaqah_comment" validate:"max=1000"`
	Zikr               bool   `json:"zikr"`
	ZikrComment        string `json:"zikr_comment" validate:"max=1000"`
	MasnunDua          bool   `json:"masnun_dua"`
	MasnunDuaComment   string `json:"masnun_dua_comment" validate:"max=1000"`
	BookReading        bool   `json:"book_reading"`
	BookReadingComment string `json:"book_reading_comment" validate:"max=1000"`

	SleepTime string `json:"sleep_time" validate:"max=50"`
	Comments  string `json:"comments" validate:"max=5000"`
}

// NewSubmission builds the record for userID on date from the input.
// Timestamps are left for the repository to stamp.
func NewSubmission(userID, date string, in SubmissionInput) Submission {
	return Submission{
		UserID:             userID,
		Date:               date,
		Prayers:            in.Prayers,
		Tilawat:            in.Tilawat,
		TilawatComment:     in.TilawatComment,
		Dua:                in.Dua,
		DuaComment:         in.DuaComment,
		Sadaqah:            in.Sadaqah,
		SadaqahComment:     in.SadaqahComment,
		Zikr:               in.Zikr,
		ZikrComment:        in.ZikrComment,
		MasnunDua:          in.MasnunDua,
		MasnunDuaComment:   in.MasnunDuaComment,
		BookReading:        in.BookReading,
		BookReadingComment: in.BookReadingComment,
		SleepTime:          in.SleepTime,
		Comments:           in.Comments,
	}
}
