package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops-console/internal/modal"
)

func testUser() modal.User {
	manager := int64(7)
	return modal.User{EmployeeID: 42, Name: "Asha", Role: modal.RoleFieldFullTime, ManagerID: &manager}
}

func TestSession_Anonymous(t *testing.T) {
	assert.False(t, Anonymous.Authenticated())
	assert.Equal(t, modal.Role(""), Anonymous.Role())
	assert.Equal(t, "", Anonymous.UserIDHeader())
}

func TestSession_IsImmutable(t *testing.T) {
	u := testUser()
	sess := New(u)

	u.Name = "changed"
	*u.ManagerID = 99

	got, ok := sess.User()
	require.True(t, ok)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, int64(7), *got.ManagerID)

	*got.ManagerID = 100
	again, _ := sess.User()
	assert.Equal(t, int64(7), *again.ManagerID)
	assert.Equal(t, "42", sess.UserIDHeader())
}

func TestSession_WithProfile(t *testing.T) {
	sess := New(testUser())
	updated := sess.WithProfile("Asha K", "9876543210")

	u, _ := updated.User()
	assert.Equal(t, "Asha K", u.Name)
	assert.Equal(t, "9876543210", u.Mobile)

	orig, _ := sess.User()
	assert.Equal(t, "Asha", orig.Name)
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())

	require.NoError(t, store.Save(New(testUser())))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"user"`)

	loaded, err := store.Load()
	require.NoError(t, err)
	u, ok := loaded.User()
	require.True(t, ok)
	assert.Equal(t, int64(42), u.EmployeeID)
	assert.Equal(t, modal.RoleFieldFullTime, u.Role)

	require.NoError(t, store.Save(Anonymous))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, store.Clear())
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("secret", time.Hour, false)

	rec := httptest.NewRecorder()
	require.NoError(t, codec.Write(rec, New(testUser())))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	sess, err := codec.Read(req)
	require.NoError(t, err)
	assert.Equal(t, modal.RoleFieldFullTime, sess.Role())
	assert.Equal(t, int64(42), sess.EmployeeID())
}

func TestCodec_RejectsTamperingAndExpiry(t *testing.T) {
	codec := NewCodec("secret", time.Minute, false)
	value, err := codec.Encode(New(testUser()))
	require.NoError(t, err)

	_, err = NewCodec("other", time.Minute, false).Decode(value)
	assert.Error(t, err)

	codec.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = codec.Decode(value)
	assert.Error(t, err)

	_, err = codec.Read(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = codec.Encode(Anonymous)
	assert.ErrorIs(t, err, ErrNoSession)
}
