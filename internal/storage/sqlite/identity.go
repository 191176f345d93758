package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"

	"github.com/yayiti-52/tasksync-hub/internal/models"
	"github.com/yayiti-52/tasksync-hub/internal/util"
)

const profileColumns = `id, account_id, display_name, avatar_initials, expertise, created_at, updated_at`

// CreateAccount provisions an account together with its profile and role in
// one transaction. The very first registered account becomes the team
// leader; everyone after that joins as a member.
func (s *Store) CreateAccount(ctx context.Context, email, passwordHash, displayName string) (models.Account, models.Profile, models.Role, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if email == "" {
		return models.Account{}, models.Profile{}, "", fmt.Errorf("%w: email is required", models.ErrValidation)
	}
	if displayName == "" {
		return models.Account{}, models.Profile{}, "", fmt.Errorf("%w: display name is required", models.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Account{}, models.Profile{}, "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	accountID := newID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts(id, email, password_hash) VALUES(?, ?, ?)`,
		accountID.String(), email, passwordHash,
	); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return models.Account{}, models.Profile{}, "", fmt.Errorf("%w: account already registered", models.ErrConflict)
		}
		return models.Account{}, models.Profile{}, "", fmt.Errorf("insert account: %w", err)
	}

	profileID := newID()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO profiles(id, account_id, display_name, avatar_initials) VALUES(?, ?, ?, ?)`,
		profileID.String(), accountID.String(), displayName, util.Initials(displayName),
	); err != nil {
		return models.Account{}, models.Profile{}, "", fmt.Errorf("insert profile: %w", err)
	}

	// Explicit first-signup rule: an empty role table means this account
	// founds the team and gets the leader role.
	var existing int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_roles`).Scan(&existing); err != nil {
		return models.Account{}, models.Profile{}, "", fmt.Errorf("count roles: %w", err)
	}
	role := models.RoleMember
	if existing == 0 {
		role = models.RoleLeader
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_roles(id, account_id, role) VALUES(?, ?, ?)`,
		newID().String(), accountID.String(), string(role),
	); err != nil {
		return models.Account{}, models.Profile{}, "", fmt.Errorf("insert role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Account{}, models.Profile{}, "", fmt.Errorf("commit signup: %w", err)
	}

	account, err := s.GetAccountByEmail(ctx, email)
	if err != nil {
		return models.Account{}, models.Profile{}, "", err
	}
	profile, err := s.GetProfileByAccount(ctx, accountID)
	if err != nil {
		return models.Account{}, models.Profile{}, "", err
	}
	return account, profile, role, nil
}

// GetAccountByEmail looks an account up for sign-in.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var (
		a     models.Account
		rawID string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, email,
	).Scan(&rawID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, fmt.Errorf("%w: account", models.ErrNotFound)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("get account: %w", err)
	}
	a.ID, err = uuid.FromString(rawID)
	if err != nil {
		return models.Account{}, fmt.Errorf("account id: %w", err)
	}
	return a, nil
}

func scanProfile(row interface{ Scan(...any) error }) (models.Profile, error) {
	var (
		p                 models.Profile
		rawID, rawAccount string
		rawExpertise      string
	)
	if err := row.Scan(&rawID, &rawAccount, &p.DisplayName, &p.AvatarInitials, &rawExpertise, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return models.Profile{}, err
	}
	var err error
	if p.ID, err = uuid.FromString(rawID); err != nil {
		return models.Profile{}, fmt.Errorf("profile id: %w", err)
	}
	if p.AccountID, err = uuid.FromString(rawAccount); err != nil {
		return models.Profile{}, fmt.Errorf("profile account id: %w", err)
	}
	p.Expertise = decodeStrings(rawExpertise)
	return p, nil
}

// GetProfile fetches a profile by id.
func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id.String())
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("%w: profile", models.ErrNotFound)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// GetProfileByAccount fetches the profile belonging to an account.
func (s *Store) GetProfileByAccount(ctx context.Context, accountID uuid.UUID) (models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE account_id = ?`, accountID.String())
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, fmt.Errorf("%w: profile", models.ErrNotFound)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile by account: %w", err)
	}
	return p, nil
}

// ListProfiles returns every profile ordered by display name.
func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY display_name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// RoleOfAccount resolves an account's role. A missing role record resolves
// to the empty role, not an error.
func (s *Store) RoleOfAccount(ctx context.Context, accountID uuid.UUID) (models.Role, error) {
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT role FROM user_roles WHERE account_id = ?`, accountID.String()).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("role of account: %w", err)
	}
	return models.Role(role), nil
}

// RoleOfProfile resolves a profile's role through its account: profiles and
// role assignments live in separate tables joined on the account id.
func (s *Store) RoleOfProfile(ctx context.Context, profileID uuid.UUID) (models.Role, error) {
	var role string
	err := s.db.QueryRowContext(ctx, `
        SELECT r.role FROM user_roles r
        JOIN profiles p ON p.account_id = r.account_id
        WHERE p.id = ?`, profileID.String()).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("role of profile: %w", err)
	}
	return models.Role(role), nil
}

// RolesByProfile returns the resolved role for every profile in one pass,
// keyed by profile id. Profiles without a role record are absent.
func (s *Store) RolesByProfile(ctx context.Context) (map[uuid.UUID]models.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT p.id, r.role FROM profiles p
        JOIN user_roles r ON r.account_id = p.account_id`)
	if err != nil {
		return nil, fmt.Errorf("roles by profile: %w", err)
	}
	defer rows.Close()

	roles := make(map[uuid.UUID]models.Role)
	for rows.Next() {
		var rawID, role string
		if err := rows.Scan(&rawID, &role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		id, err := uuid.FromString(rawID)
		if err != nil {
			return nil, fmt.Errorf("role profile id: %w", err)
		}
		roles[id] = models.Role(role)
	}
	return roles, rows.Err()
}

// UpdateExpertise replaces a profile's expertise tags.
func (s *Store) UpdateExpertise(ctx context.Context, profileID uuid.UUID, expertise []string) (models.Profile, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET expertise = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		encodeStrings(expertise), profileID.String())
	if err != nil {
		return models.Profile{}, fmt.Errorf("update expertise: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Profile{}, err
	}
	if affected == 0 {
		return models.Profile{}, fmt.Errorf("%w: profile", models.ErrNotFound)
	}
	return s.GetProfile(ctx, profileID)
}
