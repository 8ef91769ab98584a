package match

import (
	"context"
	"database/sql"
)

// PGStore persists the profile mapping in Postgres. Used when the deployment
// shares the profile set between the offline builder and several API
// replicas.
type PGStore struct {
	DB *sql.DB
}

// Load reads every profile ordered by company name.
func (s *PGStore) Load(ctx context.Context) ([]CompanyProfile, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT company_name, job_count, description_text,
		       avg_experience_required, min_experience, max_experience
		FROM company_profiles
		ORDER BY company_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []CompanyProfile
	for rows.Next() {
		var p CompanyProfile
		if err := rows.Scan(
			&p.CompanyName,
			&p.JobCount,
			&p.DescriptionText,
			&p.AvgExperienceRequired,
			&p.MinExperience,
			&p.MaxExperience,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// Save upserts the given profiles inside one transaction.
func (s *PGStore) Save(ctx context.Context, profiles []CompanyProfile) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range profiles {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO company_profiles
				(company_name, job_count, description_text,
				 avg_experience_required, min_experience, max_experience, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
			ON CONFLICT (company_name) DO UPDATE SET
				job_count = EXCLUDED.job_count,
				description_text = EXCLUDED.description_text,
				avg_experience_required = EXCLUDED.avg_experience_required,
				min_experience = EXCLUDED.min_experience,
				max_experience = EXCLUDED.max_experience,
				updated_at = now()`,
			p.CompanyName,
			p.JobCount,
			p.DescriptionText,
			p.AvgExperienceRequired,
			p.MinExperience,
			p.MaxExperience,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
