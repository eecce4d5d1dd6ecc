package errors

import "net/http"

var (
	ErrNotFound = New(
		"NOT_FOUND",
		"Elemento non trovato",
		http.StatusNotFound,
	)

	ErrUnauthenticated = New(
		"UNAUTHENTICATED",
		"Devi essere autenticato per eseguire questa operazione",
		http.StatusUnauthorized,
	)

	ErrInvalidToken = New(
		"INVALID_TOKEN",
		"Sessione non valida o scaduta",
		http.StatusUnauthorized,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Richiesta non valida",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Errore del database",
		http.StatusInternalServerError,
	)

	ErrRouteUnavailable = New(
		"ROUTE_UNAVAILABLE",
		"Percorso a piedi non disponibile",
		http.StatusBadGateway,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Errore interno del server",
		http.StatusInternalServerError,
	)
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeFetchFailed      = "FETCH_FAILED"
	CodeMutationFailed   = "MUTATION_FAILED"
	CodeConflict         = "CONFLICT"
	CodeNotFound         = "NOT_FOUND"
)

// FetchFailedMessage names the usual cause of a failed load: a row-level
// security policy or grant missing on one of the queried tables.
const FetchFailedMessage = "Impossibile caricare i dati. Verifica i permessi e le policy di accesso del database, poi riprova"
