package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var (
		ra      *RBACAuthorization
		reached bool
		next    http.Handler
	)

	serve := func(mw func(http.Handler) http.Handler, id Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req = req.WithContext(WithIdentity(req.Context(), id))
		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, req)
		return w
	}

	message := func(w *httptest.ResponseRecorder) string {
		var body map[string]string
		gomega.Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(gomega.Succeed())
		return body["message"]
	}

	ginkgo.BeforeEach(func() {
		ra = NewRBACAuthorization(slog.New(slog.NewTextHandler(io.Discard, nil)))
		reached = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})
	})

	ginkgo.It("answers 401 for anonymous callers before any role check", func() {
		w := serve(ra.RequireAdmin(), Anonymous)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(message(w)).To(gomega.Equal("Unauthorized: Please log in"))
		gomega.Expect(reached).To(gomega.BeFalse())
	})

	ginkgo.It("answers 403 for an operator on owner-only routes", func() {
		w := serve(ra.RequireAdmin(), Identity{Username: "alice", Role: RoleOperator})

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(message(w)).To(gomega.Equal("Forbidden: Owner access required"))
		gomega.Expect(reached).To(gomega.BeFalse())
	})

	ginkgo.It("answers 403 for a teknisi on privileged routes", func() {
		w := serve(ra.RequireOwnerOrOperator(), Identity{Username: "bob", Role: RoleTeknisi})

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(message(w)).To(gomega.Equal("Forbidden: Owner or Operator access required"))
	})

	ginkgo.It("stops at the first failing check", func() {
		evaluated := 0
		counting := Check{Name: "counting", Allow: func(Identity) bool { evaluated++; return true }}

		serve(ra.Require(CheckAuthenticated, counting), Anonymous)

		gomega.Expect(evaluated).To(gomega.Equal(0))
	})

	ginkgo.It("runs the handler when all checks pass", func() {
		w := serve(ra.RequireOwnerOrOperator(), Identity{Username: "alice", Role: RoleOperator})

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(reached).To(gomega.BeTrue())
	})
})
