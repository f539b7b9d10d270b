package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	sessionDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/session"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionDatamodel.Session
	roles    map[string]string
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{
		sessions: map[string]*sessionDatamodel.Session{},
		roles:    map[string]string{"bob": "Teknisi", "olga": "Owner"},
	}
}

func (m *memorySessionStore) Create(_ context.Context, s *sessionDatamodel.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memorySessionStore) Lookup(_ context.Context, id string, now time.Time) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || !s.ExpiresAt.After(now) {
		return "", "", ErrSessionNotFound
	}
	role, ok := m.roles[s.Username]
	if !ok {
		return "", "", ErrSessionNotFound
	}
	return s.Username, role, nil
}

func (m *memorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memorySessionStore) DeleteByUsername(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.Username == username {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memorySessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

var _ = ginkgo.Describe("SessionManager", func() {
	const secret = "0123456789abcdef0123456789abcdef"

	var (
		store   *memorySessionStore
		manager *SessionManager
		now     time.Time
	)

	login := func(username string) *http.Cookie {
		w := httptest.NewRecorder()
		gomega.Expect(manager.Create(context.Background(), w, username)).To(gomega.Succeed())
		cookies := w.Result().Cookies()
		gomega.Expect(cookies).To(gomega.HaveLen(1))
		return cookies[0]
	}

	requestWith := func(c *http.Cookie) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
		if c != nil {
			req.AddCookie(c)
		}
		return req
	}

	ginkgo.BeforeEach(func() {
		store = newMemorySessionStore()
		now = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		manager = NewSessionManager(store, SessionConfig{Secret: secret, TTL: 24 * time.Hour}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		manager.now = func() time.Time { return now }
	})

	ginkgo.It("issues an HttpOnly cookie that resolves to the user and stored role", func() {
		cookie := login("bob")

		gomega.Expect(cookie.Name).To(gomega.Equal("session_cookie_name"))
		gomega.Expect(cookie.HttpOnly).To(gomega.BeTrue())
		gomega.Expect(manager.Resolve(requestWith(cookie))).To(gomega.Equal(Identity{Username: "bob", Role: RoleTeknisi}))
	})

	ginkgo.It("reads the role from storage on every request", func() {
		cookie := login("bob")
		store.roles["bob"] = "Operator"

		gomega.Expect(manager.Resolve(requestWith(cookie)).Role).To(gomega.Equal(RoleOperator))
	})

	ginkgo.It("is anonymous without a cookie", func() {
		gomega.Expect(manager.Resolve(requestWith(nil))).To(gomega.Equal(Anonymous))
	})

	ginkgo.It("is anonymous for a tampered cookie", func() {
		cookie := login("bob")
		cookie.Value = cookie.Value[:len(cookie.Value)-4] + "AAAA"

		gomega.Expect(manager.Resolve(requestWith(cookie))).To(gomega.Equal(Anonymous))
	})

	ginkgo.It("is anonymous for a cookie signed with another secret", func() {
		other := NewSessionManager(store, SessionConfig{Secret: "ffffffffffffffffffffffffffffffff"}, nil)
		other.now = manager.now
		w := httptest.NewRecorder()
		gomega.Expect(other.Create(context.Background(), w, "bob")).To(gomega.Succeed())

		gomega.Expect(manager.Resolve(requestWith(w.Result().Cookies()[0]))).To(gomega.Equal(Anonymous))
	})

	ginkgo.It("expires after the TTL", func() {
		cookie := login("bob")
		now = now.Add(25 * time.Hour)

		gomega.Expect(manager.Resolve(requestWith(cookie))).To(gomega.Equal(Anonymous))
	})

	ginkgo.It("is anonymous once the user is deleted", func() {
		cookie := login("bob")
		delete(store.roles, "bob")

		gomega.Expect(manager.Resolve(requestWith(cookie))).To(gomega.Equal(Anonymous))
	})

	ginkgo.It("destroys the session and clears the cookie on logout", func() {
		cookie := login("bob")
		w := httptest.NewRecorder()

		gomega.Expect(manager.Destroy(context.Background(), w, requestWith(cookie))).To(gomega.Succeed())

		gomega.Expect(store.sessions).To(gomega.BeEmpty())
		gomega.Expect(w.Result().Cookies()[0].MaxAge).To(gomega.BeNumerically("<", 0))
		gomega.Expect(manager.Resolve(requestWith(cookie))).To(gomega.Equal(Anonymous))
	})

	ginkgo.It("revokes every session of a user", func() {
		first := login("bob")
		second := login("bob")
		olga := login("olga")

		gomega.Expect(manager.RevokeUser(context.Background(), "bob")).To(gomega.Succeed())

		gomega.Expect(manager.Resolve(requestWith(first))).To(gomega.Equal(Anonymous))
		gomega.Expect(manager.Resolve(requestWith(second))).To(gomega.Equal(Anonymous))
		gomega.Expect(manager.Resolve(requestWith(olga)).Username).To(gomega.Equal("olga"))
	})

	ginkgo.It("purges expired sessions", func() {
		login("bob")
		now = now.Add(48 * time.Hour)
		login("olga")

		n, err := manager.PurgeExpired(context.Background())
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(n).To(gomega.Equal(int64(1)))
	})

	ginkgo.It("places the identity in the request context", func() {
		cookie := login("olga")
		var seen Identity
		handler := manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = IdentityFromContext(r.Context())
		}))

		handler.ServeHTTP(httptest.NewRecorder(), requestWith(cookie))

		gomega.Expect(seen).To(gomega.Equal(Identity{Username: "olga", Role: RoleOwner}))
	})
})
