package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"weplan/internal/delivery/http/controllers"
	"weplan/internal/delivery/http/middleware"
	"weplan/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	weddingController *controllers.WeddingController,
	collaboratorController *controllers.CollaboratorController,
	invitationController *controllers.InvitationController,
	admissionController *controllers.AdmissionController,
	publicController *controllers.PublicController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /me", auth(authController.Me))

	// Weddings
	mux.HandleFunc("POST /weddings", auth(weddingController.CreateWedding))
	mux.HandleFunc("GET /me/weddings", auth(weddingController.ListMyWeddings))
	mux.HandleFunc("GET /weddings/{weddingID}", auth(weddingController.GetWedding))
	mux.HandleFunc("PATCH /weddings/{weddingID}", auth(weddingController.UpdateWedding))
	mux.HandleFunc("POST /weddings/{weddingID}/deactivate", auth(weddingController.DeactivateWedding))
	mux.HandleFunc("POST /weddings/{weddingID}/activate", auth(weddingController.ActivateWedding))

	// Collaborators
	mux.HandleFunc("GET /weddings/{weddingID}/collaborators", auth(collaboratorController.ListCollaborators))
	mux.HandleFunc("DELETE /weddings/{weddingID}/collaborators/{userID}", auth(collaboratorController.RemoveCollaborator))

	// Invitations
	mux.HandleFunc("POST /weddings/{weddingID}/invitations", auth(invitationController.IssueInvitation))
	mux.HandleFunc("GET /weddings/{weddingID}/invitations", auth(invitationController.ListInvitations))

	// Admission
	mux.HandleFunc("POST /admissions", auth(admissionController.Admit))

	// Public landing page
	mux.HandleFunc("GET /public/weddings/{eventCode}", publicController.GetPublicWedding)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
