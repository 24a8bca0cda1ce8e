package services

import (
	"fmt"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"texcat/internal/apperr"
	"texcat/internal/auth"
	"texcat/internal/mailer"
	"texcat/internal/models"
	"texcat/internal/query"
	"texcat/internal/storage"
)

var userSpec = query.Spec{
	Table:         "users",
	SearchColumns: nil, // users filter on named fields instead
	SortColumns: map[string]string{
		"first_name": "users.first_name",
		"gender":     "users.gender",
		"created_at": "users.created_at",
	},
	DefaultSort: "users.created_at DESC",
}

type UserCreate struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	MobileNo  string
	Gender    string
	Role      string
}

// UserUpdate is a partial update: nil (and empty strings) mean
// unchanged. Email and password change through dedicated flows only.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	MobileNo  *string
	Gender    *string
}

// UserFilters narrows the admin user list.
type UserFilters struct {
	FirstName string
	Gender    string
	MobileNo  string
	query.ListParams
}

type UserRow struct {
	UUID         string   `json:"uuid"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	MobileNo     string   `json:"mobile_no"`
	Gender       string   `json:"gender"`
	Roles        []string `json:"roles"`
	ProfileImage *string  `json:"profile_image"`
}

// userRowScan is the raw projection; roles arrive comma-joined from
// string_agg.
type userRowScan struct {
	UUID         string
	FirstName    string
	LastName     string
	Email        string
	MobileNo     string
	Gender       string
	Roles        *string
	ProfileImage *string
}

func (r userRowScan) toRow() UserRow {
	row := UserRow{
		UUID:         r.UUID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		MobileNo:     r.MobileNo,
		Gender:       r.Gender,
		Roles:        []string{},
		ProfileImage: r.ProfileImage,
	}
	if r.Roles != nil && *r.Roles != "" {
		row.Roles = strings.Split(*r.Roles, ",")
	}
	return row
}

func validGender(g string) bool { return g == "M" || g == "F" }

type UserService struct {
	db      *gorm.DB
	lg      *zap.SugaredLogger
	files   *storage.LocalStore
	tokens  *auth.TokenService
	mail    mailer.Mailer
	users   auth.UserSource
	baseURL string
}

func NewUserService(db *gorm.DB, lg *zap.SugaredLogger, files *storage.LocalStore,
	tokens *auth.TokenService, mail mailer.Mailer, users auth.UserSource, baseURL string) *UserService {
	return &UserService{db: db, lg: lg, files: files, tokens: tokens, mail: mail, users: users, baseURL: baseURL}
}

func (s *UserService) Create(in UserCreate, image *multipart.FileHeader) (string, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return "", apperr.Validation("email and password are required")
	}
	if len(in.Password) < 8 {
		return "", apperr.Validation("password must be at least 8 characters")
	}
	if !validGender(in.Gender) {
		return "", apperr.Validation("gender must be 'M' or 'F'")
	}

	var u models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).
			Where("email = ? AND is_delete = ?", in.Email, false).
			Count(&n).Error; err != nil {
			return apperr.Internal(err)
		}
		if n > 0 {
			return apperr.Conflict("user with email %s already exists", in.Email)
		}

		var role models.Role
		if err := tx.Where("name = ?", in.Role).First(&role).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("role %s not found", in.Role)
			}
			return apperr.Internal(err)
		}

		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return apperr.Internal(err)
		}
		u = models.User{
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			PasswordHash: hash,
			MobileNo:     in.MobileNo,
			Gender:       in.Gender,
			Roles:        []models.Role{role},
		}
		if err := tx.Create(&u).Error; err != nil {
			if isUniqueViolation(err) {
				return apperr.Conflict("user with email %s already exists", in.Email)
			}
			return apperr.Internal(err)
		}

		if image != nil {
			docID, err := saveDocument(tx, s.files, image,
				fmt.Sprintf("users/profile_images/%s", u.UUID), "PROFILE-IMAGE")
			if err != nil {
				return apperr.Internal(err)
			}
			u.ProfileImageID = &docID
			if err := tx.Save(&u).Error; err != nil {
				return apperr.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return u.UUID, nil
}

// Login exchanges credentials for an access/refresh pair. The failure
// message never distinguishes a missing user from a wrong password.
func (s *UserService) Login(email, password string) (auth.TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.FindLiveByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return auth.TokenPair{}, apperr.Unauthenticated("incorrect email or password")
		}
		return auth.TokenPair{}, apperr.Internal(err)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return auth.TokenPair{}, apperr.Unauthenticated("incorrect email or password")
	}
	pair, err := s.tokens.IssuePair(u.Email)
	if err != nil {
		return auth.TokenPair{}, apperr.Internal(err)
	}
	return pair, nil
}

func (s *UserService) ChangePassword(id auth.Identity, oldPassword, newPassword string) error {
	if newPassword == "" {
		return apperr.Validation("new password is required")
	}
	u, err := s.users.FindLiveByEmail(id.Email)
	if err != nil {
		// The account may have been deactivated after the token was
		// issued.
		if err == gorm.ErrRecordNotFound {
			return apperr.Unauthenticated("could not validate credentials")
		}
		return apperr.Internal(err)
	}
	if err := auth.CheckPassword(u.PasswordHash, oldPassword); err != nil {
		return apperr.Validation("invalid password")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", u.ID).
		Update("password_hash", hash).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// ForgotPassword emails a short-lived reset link. Delivery happens in
// the background; a send failure is logged and never retried or
// surfaced.
func (s *UserService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.FindLiveByEmail(email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.Validation("user not found")
		}
		return apperr.Internal(err)
	}
	token, err := s.tokens.IssueResetToken(u.Email)
	if err != nil {
		return apperr.Internal(err)
	}
	link := fmt.Sprintf("%s/v1/auth/reset-password?token=%s", s.baseURL, token)
	go func(to, name string) {
		if err := s.mail.SendPasswordReset(to, name, link); err != nil {
			s.lg.Errorw("password reset mail failed", "email", to, "error", err)
		}
	}(u.Email, u.FirstName)
	return nil
}

func (s *UserService) ResetPassword(token, newPassword string) error {
	if newPassword == "" {
		return apperr.Validation("new password is required")
	}
	u, err := s.tokens.ResolveReset(token)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.db.Model(&models.User{}).Where("id = ?", u.ID).
		Update("password_hash", hash).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *UserService) baseQuery(id auth.Identity) *gorm.DB {
	return s.db.Model(&models.User{}).
		Select(`users.uuid, users.first_name, users.last_name, users.email,
			users.mobile_no, users.gender,
			string_agg(roles.name, ',') AS roles,
			document_masters.file_path AS profile_image`).
		Joins("LEFT JOIN user_roles ON user_roles.user_id = users.id").
		Joins("LEFT JOIN roles ON roles.id = user_roles.role_id").
		Joins("LEFT JOIN document_masters ON document_masters.id = users.profile_image_id").
		Group("users.id, document_masters.file_path").
		Scopes(query.Visible("users", id))
}

// List returns every user visible to the caller except the caller
// themselves.
func (s *UserService) List(id auth.Identity, f UserFilters) ([]UserRow, error) {
	if f.Gender != "" && !validGender(f.Gender) {
		return nil, apperr.Validation("gender must be 'M' or 'F'")
	}
	q := s.baseQuery(id).Where("users.uuid <> ?", id.UUID)
	if f.FirstName != "" {
		q = q.Where("users.first_name ILIKE ?", "%"+f.FirstName+"%")
	}
	if f.Gender != "" {
		q = q.Where("users.gender = ?", f.Gender)
	}
	if f.MobileNo != "" {
		q = q.Where("users.mobile_no LIKE ?", "%"+f.MobileNo+"%")
	}
	q, err := query.Apply(q, f.ListParams, userSpec)
	if err != nil {
		return nil, err
	}
	var raw []userRowScan
	if err := q.Scan(&raw).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	rows := make([]UserRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, r.toRow())
	}
	return rows, nil
}

func (s *UserService) GetByUUID(id auth.Identity, uuid string) (*UserRow, error) {
	var raw userRowScan
	err := s.baseQuery(id).Where("users.uuid = ?", uuid).Take(&raw).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	row := raw.toRow()
	return &row, nil
}

// Me returns the caller's own profile.
func (s *UserService) Me(id auth.Identity) (*UserRow, error) {
	return s.GetByUUID(id, id.UUID)
}

func (s *UserService) Update(uuid string, in UserUpdate, image *multipart.FileHeader) error {
	if in.Gender != nil && *in.Gender != "" && !validGender(*in.Gender) {
		return apperr.Validation("gender must be 'M' or 'F'")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Where("uuid = ? AND is_delete = ?", uuid, false).First(&u).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("user with uuid %s not found", uuid)
			}
			return apperr.Internal(err)
		}
		if !u.IsActive {
			return apperr.Validation("user is deactivated, contact admin")
		}

		setString(&u.FirstName, in.FirstName)
		setString(&u.LastName, in.LastName)
		setString(&u.MobileNo, in.MobileNo)
		setString(&u.Gender, in.Gender)

		if image != nil {
			docID, err := saveDocument(tx, s.files, image,
				fmt.Sprintf("users/profile_images/%s", u.UUID), "PROFILE-IMAGE")
			if err != nil {
				return apperr.Internal(err)
			}
			u.ProfileImageID = &docID
		}
		if err := tx.Save(&u).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

func (s *UserService) ToggleActive(uuid string) (bool, error) {
	var u models.User
	if err := s.db.Where("uuid = ? AND is_delete = ?", uuid, false).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, apperr.NotFound("user not found")
		}
		return false, apperr.Internal(err)
	}
	u.IsActive = !u.IsActive
	if err := s.db.Save(&u).Error; err != nil {
		return false, apperr.Internal(err)
	}
	return u.IsActive, nil
}

func (s *UserService) Delete(uuid string) error {
	var u models.User
	if err := s.db.Where("uuid = ? AND is_delete = ?", uuid, false).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal(err)
	}
	u.IsDelete = true
	if err := s.db.Save(&u).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}
