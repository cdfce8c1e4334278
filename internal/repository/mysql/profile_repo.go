package mysql

import (
	"context"
	"database/sql"

	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/util"

	"go.uber.org/zap"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *profileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (email, password_hash, display_name) VALUES (?, ?, ?)`,
		profile.Email, profile.PasswordHash, profile.DisplayName)
	if err != nil {
		util.Logger.Error("创建档案失败", zap.Error(err))
		return err
	}

	profileID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	profile.ID = profileID

	// 角色关联带位置列，读取时按位置还原顺序
	for i, role := range profile.Roles {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO profile_roles (profile_id, role_id, position) VALUES (?, ?, ?)`,
			profileID, role.ID, i)
		if err != nil {
			util.Logger.Error("关联档案角色失败", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *profileRepository) FindByID(ctx context.Context, id int64) (*model.Profile, error) {
	return r.findBy(ctx, `SELECT id, email, password_hash, display_name FROM profiles WHERE id = ?`, id)
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	return r.findBy(ctx, `SELECT id, email, password_hash, display_name FROM profiles WHERE email = ?`, email)
}

func (r *profileRepository) findBy(ctx context.Context, query string, arg interface{}) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&profile.ID, &profile.Email, &profile.PasswordHash, &profile.DisplayName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	roles, err := r.rolesByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	profile.Roles = roles

	return &profile, nil
}

func (r *profileRepository) rolesByProfile(ctx context.Context, profileID int64) ([]model.Role, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT ro.id, ro.name
        FROM profile_roles pr
        JOIN roles ro ON ro.id = pr.role_id
        WHERE pr.profile_id = ?
        ORDER BY pr.position ASC`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *profileRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE email = ?)`, email).Scan(&exists)
	return exists, err
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET email = ?, password_hash = ?, display_name = ? WHERE id = ?`,
		profile.Email, profile.PasswordHash, profile.DisplayName, profile.ID)
	if err != nil {
		util.Logger.Error("更新档案失败", zap.Error(err), zap.Int64("profile_id", profile.ID))
	}
	return err
}

func (r *profileRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除档案失败", zap.Error(err), zap.Int64("profile_id", id))
	}
	return err
}
