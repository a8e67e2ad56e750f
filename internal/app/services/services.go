// Services defined in this package:
// - AuthService: password and magic-link authentication, token lifecycle
// - ProfileService: profile resolution, role administration, admin sync
// - EventService: club events, registrations and the calendar grid
// - CardService: entry cards and their budget-ledger coupling
// - PurchaseService: the append-only budget ledger
// - ArticleService: forum articles, likes and comments
package services
