package models

// PrayersPatch carries optional per-prayer status changes.
type PrayersPatch struct {
	Fajr    *PrayerStatus `json:"fajr,omitempty" validate:"omitempty,prayer_status"`
	Zuhr    *PrayerStatus `json:"zuhr,omitempty" validate:"omitempty,prayer_status"`
	Asr     *PrayerStatus `json:"asr,omitempty" validate:"omitempty,prayer_status"`
	Maghrib *PrayerStatus `json:"maghrib,omitempty" validate:"omitempty,prayer_status"`
	Isha    *PrayerStatus `json:"isha,omitempty" validate:"omitempty,prayer_status"`
}

// SubmissionPatch is a partial update of a Submission. A nil field is left
// unchanged. Identity fields (user, date) and timestamps are not patchable.
type SubmissionPatch struct {
	Prayers *PrayersPatch `json:"prayers,omitempty"`

	Tilawat            *bool   `json:"tilawat,omitempty"`
	TilawatComment     *string `json:"tilawat_comment,omitempty" validate:"omitempty,max=1000"`
	Dua                *bool   `json:"dua,omitempty"`
	DuaComment         *string `json:"dua_comment,omitempty" validate:"omitempty,max=1000"`
	Sadaqah            *bool   `json:"sadaqah,omitempty"`
	SadaqahComment     *string `json:"sadaqah_comment,omitempty" validate:"omitempty,max=1000"`
	Zikr               *bool   `json:"zikr,omitempty"`
	ZikrComment        *string `json:"zikr_comment,omitempty" validate:"omitempty,max=1000"`
	MasnunDua          *bool   `json:"masnun_dua,omitempty"`
	MasnunDuaComment   *string `json:"masnun_dua_comment,omitempty" validate:"omitempty,max=1000"`
	BookReading        *bool   `json:"book_reading,omitempty"`
	BookReadingComment *string `json:"book_reading_comment,omitempty" validate:"omitempty,max=1000"`

	SleepTime *string `json:"sleep_time,omitempty" validate:"omitempty,max=50"`
	Comments  *string `json:"comments,omitempty" validate:"omitempty,max=5000"`
}

// PatchFromInput turns a full input into a patch that overwrites every field.
func PatchFromInput(in SubmissionInput) SubmissionPatch {
	p := in.Prayers
	return SubmissionPatch{
		Prayers: &PrayersPatch{
			Fajr:    &p.Fajr,
			Zuhr:    &p.Zuhr,
			Asr:     &p.Asr,
			Maghrib: &p.Maghrib,
			Isha:    &p.Isha,
		},
		Tilawat:            &in.Tilawat,
		TilawatComment:     &in.TilawatComment,
		Dua:                &in.Dua,
		DuaComment:         &in.DuaComment,
		Sadaqah:            &in.Sadaqah,
		SadaqahComment:     &in.SadaqahComment,
		Zikr:               &in.Zikr,
		ZikrComment:        &in.ZikrComment,
		MasnunDua:          &in.MasnunDua,
		MasnunDuaComment:   &in.MasnunDuaComment,
		BookReading:        &in.BookReading,
		BookReadingComment: &in.BookReadingComment,
		SleepTime:          &in.SleepTime,
		Comments:           &in.Comments,
	}
}

// Fields returns the set fields keyed by their stored (bson) names.
// Prayer fields use dotted paths so that a partial prayers patch does not
// replace the whole prayers document.
func (p SubmissionPatch) Fields() map[string]interface{} {
	f := make(map[string]interface{})
	if p.Prayers != nil {
		setStatus(f, "prayers.fajr", p.Prayers.Fajr)
		setStatus(f, "prayers.zuhr", p.Prayers.Zuhr)
		setStatus(f, "prayers.asr", p.Prayers.Asr)
		setStatus(f, "prayers.maghrib", p.Prayers.Maghrib)
		setStatus(f, "prayers.isha", p.Prayers.Isha)
	}
	setBool(f, "tilawat", p.Tilawat)
	setString(f, "tilawat_comment", p.TilawatComment)
	setBool(f, "dua", p.Dua)
	setString(f, "dua_comment", p.DuaComment)
	setBool(f, "sadaqah", p.Sadaqah)
	setString(f, "sadaqah_comment", p.SadaqahComment)
	setBool(f, "zikr", p.Zikr)
	setString(f, "zikr_comment", p.ZikrComment)
	setBool(f, "masnun_dua", p.MasnunDua)
	setString(f, "masnun_dua_comment", p.MasnunDuaComment)
	setBool(f, "book_reading", p.BookReading)
	setString(f, "book_reading_comment", p.BookReadingComment)
	setString(f, "sleep_time", p.SleepTime)
	setString(f, "comments", p.Comments)
	return f
}

// IsEmpty reports whether the patch changes nothing.
func (p SubmissionPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Apply copies the set fields onto s. Timestamps are not touched.
func (p SubmissionPatch) Apply(s *Submission) {
	if p.Prayers != nil {
		applyStatus(&s.Prayers.Fajr, p.Prayers.Fajr)
		applyStatus(&s.Prayers.Zuhr, p.Prayers.Zuhr)
		applyStatus(&s.Prayers.Asr, p.Prayers.Asr)
		applyStatus(&s.Prayers.Maghrib, p.Prayers.Maghrib)
		applyStatus(&s.Prayers.Isha, p.Prayers.Isha)
	}
	applyBool(&s.Tilawat, p.Tilawat)
	applyString(&s.TilawatComment, p.TilawatComment)
	applyBool(&s.Dua, p.Dua)
	applyString(&s.DuaComment, p.DuaComment)
	applyBool(&s.Sadaqah, p.Sadaqah)
	applyString(&s.SadaqahComment, p.SadaqahComment)
	applyBool(&s.Zikr, p.Zikr)
	applyString(&s.ZikrComment, p.ZikrComment)
	applyBool(&s.MasnunDua, p.MasnunDua)
	applyString(&s.MasnunDuaComment, p.MasnunDuaComment)
	applyBool(&s.BookReading, p.BookReading)
	applyString(&s.BookReadingComment, p.BookReadingComment)
	applyString(&s.SleepTime, p.SleepTime)
	applyString(&s.Comments, p.Comments)
}

func setStatus(f map[string]interface{}, key string, v *PrayerStatus) {
	if v != nil {
		f[key] = string(*v)
	}
}

func setBool(f map[string]interface{}, key string, v *bool) {
	if v != nil {
		f[key] = *v
	}
}

func setString(f map[string]interface{}, key string, v *string) {
	if v != nil {
		f[key] = *v
	}
}

func applyStatus(dst *PrayerStatus, v *PrayerStatus) {
	if v != nil {
		*dst = *v
	}
}

func applyBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
