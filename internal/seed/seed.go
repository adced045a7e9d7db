package seed

import (
	"time"

	"tenderportal/models"
)

// Затравочные данные портала: три пользователя каталога, два
// опубликованных тендера и одно поданное предложение

func ts(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

func tsp(value string) *time.Time {
	t := ts(value)
	return &t
}

// Users возвращает каталог известных пользователей
func Users() []models.User {
	return []models.User{
		{
			ID:        "1",
			Email:     "admin@tender.com",
			Name:      "System Administrator",
			Role:      models.RoleAdmin,
			Status:    models.UserActive,
			CreatedAt: ts("2024-01-01T00:00:00Z"),
			LastLogin: tsp("2024-01-15T10:00:00Z"),
		},
		{
			ID:        "2",
			Email:     "bidder@company.com",
			Name:      "John Bidder",
			Role:      models.RoleBidder,
			Status:    models.UserActive,
			CreatedAt: ts("2024-01-02T00:00:00Z"),
			LastLogin: tsp("2024-01-15T09:30:00Z"),
		},
		{
			ID:        "3",
			Email:     "issuer@gov.org",
			Name:      "Sarah Issuer",
			Role:      models.RoleIssuer,
			Status:    models.UserActive,
			CreatedAt: ts("2024-01-03T00:00:00Z"),
			LastLogin: tsp("2024-01-15T08:45:00Z"),
		},
	}
}

// Tenders возвращает стартовые тендеры
func Tenders() []models.Tender {
	return []models.Tender{
		{
			ID:          "1",
			Title:       "Website Development Project",
			Description: "Looking for a professional web development team to build a corporate website with modern design and functionality.",
			Category:    "Technology",
			IssuerID:    "3",
			IssuerName:  "Sarah Issuer",
			Deadline:    ts("2024-02-15T23:59:59Z"),
			Budget:      25000,
			Status:      models.TenderPublished,
			Requirements: []string{
				"React/Vue.js experience",
				"Responsive design",
				"SEO optimization",
			},
			Attachments: []models.FileAttachment{
				{
					ID:         "1",
					Filename:   "requirements.pdf",
					Filesize:   245760,
					Mimetype:   "application/pdf",
					UploadedAt: ts("2024-01-10T10:00:00Z"),
					UploadedBy: "Sarah Issuer",
					URL:        "#",
				},
			},
			CreatedAt: ts("2024-01-10T10:00:00Z"),
			UpdatedAt: ts("2024-01-10T10:00:00Z"),
			BidCount:  3,
		},
		{
			ID:          "2",
			Title:       "Mobile App Development",
			Description: "Native iOS and Android app development for a fintech startup. Looking for experienced mobile developers.",
			Category:    "Mobile Development",
			IssuerID:    "3",
			IssuerName:  "Sarah Issuer",
			Deadline:    ts("2024-03-01T23:59:59Z"),
			Budget:      45000,
			Status:      models.TenderPublished,
			Requirements: []string{
				"React Native or Flutter",
				"Banking app experience",
				"Security expertise",
			},
			Attachments: []models.FileAttachment{},
			CreatedAt:   ts("2024-01-12T14:30:00Z"),
			UpdatedAt:   ts("2024-01-12T14:30:00Z"),
			BidCount:    1,
		},
	}
}

// Bids возвращает стартовые предложения
func Bids() []models.Bid {
	return []models.Bid{
		{
			ID:         "1",
			TenderID:   "1",
			BidderID:   "2",
			BidderName: "John Bidder",
			Amount:     22000,
			Proposal:   "We can deliver a high-quality website using React and modern design principles. Our team has 5+ years experience.",
			Status:     models.BidSubmitted,
			Attachments: []models.FileAttachment{
				{
					ID:         "2",
					Filename:   "portfolio.pdf",
					Filesize:   512000,
					Mimetype:   "application/pdf",
					UploadedAt: ts("2024-01-11T15:00:00Z"),
					UploadedBy: "John Bidder",
					URL:        "#",
				},
			},
			SubmittedAt: ts("2024-01-11T15:00:00Z"),
			UpdatedAt:   ts("2024-01-11T15:00:00Z"),
		},
	}
}
