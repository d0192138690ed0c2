package model

// Catalog records mirror the remote reference data. Each carries both the
// canonical id assigned by the service and, for records that predate the
// service, a legacy numeric id.

type District struct {
	ID       string `json:"id"`
	LegacyID int64  `json:"legacy_id,omitempty"`
	Name     string `json:"name"`
}

type Tehsil struct {
	ID         string `json:"id"`
	LegacyID   int64  `json:"legacy_id,omitempty"`
	DistrictID string `json:"districtId"`
	Name       string `json:"name"`
}

type Village struct {
	ID       string `json:"id"`
	LegacyID int64  `json:"legacy_id,omitempty"`
	TehsilID string `json:"tehsilId"`
	Name     string `json:"name"`
}

type Language struct {
	ID       string `json:"id"`
	LegacyID int64  `json:"legacy_id,omitempty"`
	Name     string `json:"name"`
	Script   string `json:"script,omitempty"`
}

type Word struct {
	ID         string `json:"id"`
	LegacyID   int64  `json:"legacy_id,omitempty"`
	LanguageID string `json:"languageId"`
	Text       string `json:"text"`
	Meaning    string `json:"meaning,omitempty"`
}

// Ref converts a catalog record's id pair into an EntityRef.
func (d District) Ref() EntityRef { return EntityRef{CanonicalID: d.ID, LegacyID: d.LegacyID} }
func (t Tehsil) Ref() EntityRef   { return EntityRef{CanonicalID: t.ID, LegacyID: t.LegacyID} }
func (v Village) Ref() EntityRef  { return EntityRef{CanonicalID: v.ID, LegacyID: v.LegacyID} }
func (l Language) Ref() EntityRef { return EntityRef{CanonicalID: l.ID, LegacyID: l.LegacyID} }
func (w Word) Ref() EntityRef     { return EntityRef{CanonicalID: w.ID, LegacyID: w.LegacyID} }

// Reference bundles the catalogs the UI needs before a form can be shown.
type Reference struct {
	Districts []District `json:"districts"`
	Languages []Language `json:"languages"`
}
