package email

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendLoginCodeEmail(toEmail, code string) error
	SendWelcomeEmail(toEmail, toName string) error
	SendPasswordResetEmail(toEmail, token string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendLoginCodeEmail sends a one-time login code. Without SMTP
// credentials the code is logged instead so local setups can still
// complete the login flow.
func (s *EmailServiceImpl) SendLoginCodeEmail(toEmail, code string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("code", code).
			Msg("SMTP credentials not configured - login code not emailed. Use the code above for testing.")
		return nil
	}

	subject := "Votre code de connexion AquaClub"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Connexion à AquaClub</h2>
				<p>Bonjour,</p>
				<p>Voici votre code de connexion à usage unique :</p>

				<div style="text-align: center; margin: 30px 0;">
					<span style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%s</span>
				</div>

				<p>Ce code expire dans 15 minutes et ne peut être utilisé qu'une seule fois.</p>

				<p>Si vous n'avez pas demandé ce code, vous pouvez ignorer cet email.</p>

				<p>Sportivement,<br>L'équipe AquaClub</p>
			</div>
		</body>
		</html>
	`, code)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendWelcomeEmail greets a newly created profile
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("toName", toName).
			Msg("SMTP credentials not configured - welcome email not sent.")
		return nil
	}

	subject := "Bienvenue sur AquaClub"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Bienvenue sur AquaClub !</h2>
				<p>Bonjour %s,</p>
				<p>Votre compte est actif. Vous pouvez dès maintenant consulter le calendrier des entraînements, compétitions et sorties du club.</p>

				<p>Sportivement,<br>L'équipe AquaClub</p>
			</div>
		</body>
		</html>
	`, toName)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends a single-use password reset token. Like
// the login code, the token is logged when SMTP is not configured.
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, token string) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("token", token).
			Msg("SMTP credentials not configured - reset token not emailed. Use the token above for testing.")
		return nil
	}

	subject := "Réinitialisation de votre mot de passe AquaClub"

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Réinitialisation du mot de passe</h2>
				<p>Bonjour,</p>
				<p>Une réinitialisation de mot de passe a été demandée pour votre compte. Voici votre jeton de réinitialisation :</p>

				<div style="text-align: center; margin: 30px 0;">
					<span style="font-size: 18px; font-weight: bold;">%s</span>
				</div>

				<p>Ce jeton expire dans une heure et ne peut être utilisé qu'une seule fois.</p>

				<p>Si vous n'avez pas demandé cette réinitialisation, vous pouvez ignorer cet email : votre mot de passe reste inchangé.</p>

				<p>Sportivement,<br>L'équipe AquaClub</p>
			</div>
		</body>
		</html>
	`, token)

	return s.sendHTMLEmail(toEmail, subject, body)
}

func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	err := smtp.SendMail(
		serverAddress,
		auth,
		s.config.FromEmail,
		[]string{toEmail},
		[]byte(message),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// GenerateLoginCode generates a 6-digit numeric one-time login code
func GenerateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate login code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
