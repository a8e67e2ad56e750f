package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	ProfileRepository      *ProfileRepository
	EventRepository        *EventRepository
	RegistrationRepository *RegistrationRepository
	CardRepository         *CardRepository
	PurchaseRepository     *PurchaseRepository
	ArticleRepository      *ArticleRepository
	TokenRepository        *TokenRepository
	ResetTokenRepository   *PasswordResetTokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ProfileRepository:      NewProfileRepository(db),
		EventRepository:        NewEventRepository(db),
		RegistrationRepository: NewRegistrationRepository(db),
		CardRepository:         NewCardRepository(db),
		PurchaseRepository:     NewPurchaseRepository(db),
		ArticleRepository:      NewArticleRepository(db),
		TokenRepository:        NewTokenRepository(db),
		ResetTokenRepository:   NewPasswordResetTokenRepository(db),
	}
}
