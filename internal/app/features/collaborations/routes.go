// internal/app/features/collaborations/routes.go
package collaborations

import (
	"github.com/dalemusser/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /api/collaborations requires authentication.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/{objectType}/{id}", h.ServeCollaboration)

		// MEMBERS
		pr.Get("/{objectType}/{id}/members", h.ServeMembers)
		pr.Put("/{objectType}/{id}/members/{userID}", h.HandleAddMember)
		pr.Delete("/{objectType}/{id}/members/{userID}", h.HandleRemoveMember)

		// MEMBERSHIP REQUESTS
		pr.Get("/{objectType}/{id}/membership", h.ServeMembershipRequests)
		pr.Get("/{objectType}/{id}/membership/{userID}", h.ServeMembershipRequest)
		pr.Put("/{objectType}/{id}/membership/{userID}", h.HandleCreateMembershipRequest)
		pr.Delete("/{objectType}/{id}/membership/{userID}", h.HandleWithdrawMembershipRequest)

		// INVITE UI SUPPORT
		pr.Get("/{objectType}/{id}/invitablepeople", h.ServeInvitablePeople)
	})

	return r
}
