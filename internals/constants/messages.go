package constants

// User-facing messages (French)
const (
	MsgInternalError   = "Erreur interne du serveur"
	MsgUnauthorized    = "Non autorisé"
	MsgForbidden       = "Accès interdit"
	MsgNotFound        = "Ressource introuvable"
	MsgInvalidBody     = "Requête invalide"
	MsgInvalidID       = "Identifiant invalide"
	MsgValidation      = "Données invalides"
	MsgTooManyRequests = "Trop de requêtes, réessayez plus tard"

	MsgSubscribersOnly = "Accès réservé aux abonnés"
	MsgUnknownModule   = "Module inconnu"
	MsgChapterLocked   = "Ce chapitre n'est pas inclus dans votre accès"
)
