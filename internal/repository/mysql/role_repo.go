package mysql

import (
	"context"
	"database/sql"

	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/util"

	"go.uber.org/zap"
)

type roleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) *roleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM roles WHERE name = ?`, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByProfile(ctx context.Context, profileID int64) ([]model.Role, error) {
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

func (r *roleRepository) EnsureDefaults(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := r.db.ExecContext(ctx,
			`INSERT IGNORE INTO roles (name) VALUES (?)`, name)
		if err != nil {
			util.Logger.Error("初始化内置角色失败", zap.Error(err), zap.String("role", name))
			return err
		}
	}
	return nil
}
