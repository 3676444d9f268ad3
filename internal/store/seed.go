package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// AdminSeed describes the administrator created on first startup.
type AdminSeed struct {
	Username     string
	Email        string
	PasswordHash string
}

// DefaultFAQs are inserted when the faqs table is empty.
var DefaultFAQs = []FAQ{
	{Question: "What programs does BBC College offer?", Answer: "BBC College offers various undergraduate and postgraduate programs including BBA (Bachelor of Business Administration), BCA (Bachelor of Computer Applications), MBA (Master of Business Administration), and other specialized courses."},
	{Question: "How can I apply for admission to BBC College?", Answer: "You can apply for admission to BBC College by filling out the application form available on our website https://bbc.edu.in/ or by visiting our admission office. You'll need to submit academic transcripts, identification documents, and other required materials."},
	{Question: "What is the fee structure at BBC College?", Answer: "The fee structure varies by program at BBC College. For detailed information about tuition fees and payment schedules, please contact our admission office at +91-XXXXXXXXXX or visit our campus."},
	{Question: "Does BBC College provide hostel facilities?", Answer: "Yes, BBC College provides hostel accommodation for outstation students. Our hostels are well-maintained with necessary amenities to ensure a comfortable stay for students."},
	{Question: "What placement opportunities are available at BBC College?", Answer: "BBC College has a dedicated placement cell that works with various industries to provide placement opportunities. We have a good track record of placements and also organize training programs to prepare students for their careers."},
	{Question: "What are the facilities available at BBC College?", Answer: "BBC College provides excellent facilities including a well-equipped library, modern computer labs, science laboratories, sports facilities, cafeteria, and hostel accommodation for students."},
	{Question: "How can I contact BBC College?", Answer: "You can contact BBC College at:\nPhone: +91-XXXXXXXXXX\nEmail: info@bbc.edu.in\nAddress: BBC Educational Campus, [City/Area], [State], India\nWebsite: https://bbc.edu.in/"},
	{Question: "What is the vision of BBC College?", Answer: "BBC College is committed to providing quality education and focuses on holistic development of students through academic excellence, extracurricular activities, and value-based education."},
	{Question: "Are there scholarships available at BBC College?", Answer: "Yes, BBC College offers various scholarship programs for deserving students. Please contact our admission office for detailed information about scholarship opportunities and eligibility criteria."},
	{Question: "What are the college timings at BBC College?", Answer: "The college timing is typically from 9:00 AM to 4:00 PM, Monday to Friday. However, specific timings may vary for different programs. The administrative office is open from 9:00 AM to 5:00 PM on working days."},
}

// Seed creates the administrator if missing and fills an empty FAQ table.
// It is safe to call on every startup. A nil logger means slog.Default().
func (s *SQLiteStore) Seed(ctx context.Context, admin AdminSeed, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	existing, err := s.GetUserByUsername(ctx, admin.Username)
	if err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if existing == nil {
		if _, err := s.CreateUser(ctx, admin.Username, admin.Email, admin.PasswordHash, true); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		logger.Info("seeded admin user", "username", admin.Username)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM faqs").Scan(&count); err != nil {
			return fmt.Errorf("failed to count faqs: %w", err)
		}
		if count > 0 {
			return nil
		}

		stmt, err := tx.PrepareContext(ctx, "INSERT INTO faqs (question, answer) VALUES (?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare faq seed insert: %w", err)
		}
		defer stmt.Close()

		for _, faq := range DefaultFAQs {
			if _, err := stmt.ExecContext(ctx, faq.Question, faq.Answer); err != nil {
				return fmt.Errorf("failed to seed faq %q: %w", faq.Question, err)
			}
		}
		logger.Info("seeded default faqs", "count", len(DefaultFAQs))
		return nil
	})
}
