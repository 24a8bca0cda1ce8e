package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names seeded at deployment.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Base carries the fields shared by every catalog entity. The numeric id
// is internal only; the uuid is the public identifier. Deleted rows are
// never removed, is_delete excludes them from every query.
type Base struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID       string    `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	ModifiedAt time.Time `gorm:"autoUpdateTime" json:"modified_at"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	IsDelete   bool      `gorm:"not null;default:false;index" json:"-"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.NewString()
	}
	return nil
}

type Role struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	Name        string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

type User struct {
	Base
	FirstName      string  `gorm:"size:50" json:"first_name"`
	LastName       string  `gorm:"size:50" json:"last_name"`
	Email          string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash   string  `gorm:"size:100;not null" json:"-"`
	MobileNo       string  `gorm:"size:10" json:"mobile_no"`
	Gender         string  `gorm:"size:1" json:"gender"`
	ProfileImageID *uint64 `json:"-"`

	ProfileImage *DocumentMaster `gorm:"foreignKey:ProfileImageID" json:"-"`
	Roles        []Role          `gorm:"many2many:user_roles" json:"roles"`
}

// RoleNames returns the names of the user's roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

type Collection struct {
	Base
	Name              string  `gorm:"size:50;uniqueIndex;not null" json:"name"`
	CollectionImageID *uint64 `json:"-"`

	CollectionImage *DocumentMaster `gorm:"foreignKey:CollectionImageID" json:"-"`
}

type Hanger struct {
	Base
	Name                string  `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Code                string  `gorm:"size:50;uniqueIndex;not null" json:"code"`
	MillReferenceNumber string  `gorm:"size:255" json:"mill_reference_number"`
	Construction        string  `gorm:"size:255" json:"construction"`
	Composition         string  `gorm:"size:255" json:"composition"`
	GSM                 int     `json:"gsm"`
	Width               int     `json:"width"`
	Count               string  `gorm:"size:255" json:"count"`
	CollectionID        *uint64 `json:"-"`
	HangerImageID       *uint64 `json:"-"`

	Collection  *Collection     `gorm:"foreignKey:CollectionID" json:"-"`
	HangerImage *DocumentMaster `gorm:"foreignKey:HangerImageID" json:"-"`
}

type Sample struct {
	Base
	Name                       string  `gorm:"size:255;uniqueIndex;not null" json:"name"`
	MillReferenceNumber        string  `gorm:"size:255" json:"mill_reference_number"`
	BuyerReferenceConstruction string  `gorm:"size:255" json:"buyer_reference_construction"`
	Composition                string  `gorm:"size:255" json:"composition"`
	Construction               string  `gorm:"size:255" json:"construction"`
	GSM                        int     `json:"gsm"`
	Width                      int     `json:"width"`
	Count                      string  `gorm:"size:255" json:"count"`
	HangerID                   *uint64 `json:"-"`
	SampleImageID              *uint64 `json:"-"`

	Hanger      *Hanger         `gorm:"foreignKey:HangerID" json:"-"`
	SampleImage *DocumentMaster `gorm:"foreignKey:SampleImageID" json:"-"`
}

// DocumentMaster is a generic attachment record. An entity references its
// document by id; a document belongs to exactly one entity at a time.
type DocumentMaster struct {
	Base
	DocumentName string `gorm:"size:255" json:"document_name"`
	FilePath     string `gorm:"size:255" json:"file_path"`
	EntityType   string `gorm:"size:255" json:"entity_type"`
	ActualPath   string `gorm:"size:255" json:"-"`
}
