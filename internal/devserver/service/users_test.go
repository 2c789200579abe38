package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/leavedesk/internal/devserver/service"
	"github.com/aussiebroadwan/leavedesk/pkg/cryptox"
)

const fixtureTOML = `
[[users]]
employee_id = "EMP100"
mobile_number = "9111111111"
name = "Test Faculty"
role = "FACULTY"
admin_id = "ADM9"
password = "password100"
first_login = true

[[users]]
employee_id = "ADM9"
mobile_number = "9222222222"
role = "ADMIN"
super_admin_id = "SA9"
password = "password200"
`

func TestLoadUsersFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.toml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureTOML), 0o600))

	records, err := service.LoadUsersFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "EMP100", records[0].EmployeeID)
	require.Equal(t, "ADM9", records[0].AdminID)
	require.True(t, records[0].FirstLogin)
	require.Equal(t, "SA9", records[1].SuperAdminID)

	dir, err := service.NewUserDirectory(cryptox.NewHasher(""), records)
	require.NoError(t, err)

	u, err := dir.Authenticate("9111111111", "password100", "")
	require.NoError(t, err)
	require.Equal(t, "EMP100", u.EmployeeID)
	require.NotEqual(t, "password100", u.PasswordHash)
}

func TestLoadUsersFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := service.LoadUsersFile(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.toml")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing here\n"), 0o600))
	_, err = service.LoadUsersFile(empty)
	require.Error(t, err)
}

func TestNewUserDirectoryValidation(t *testing.T) {
	t.Parallel()

	h := cryptox.NewHasher("")
	base := service.UserRecord{EmployeeID: "E1", MobileNumber: "1", Role: "FACULTY", Password: "password1"}

	tests := []struct {
		name    string
		records []service.UserRecord
	}{
		{"missing password", []service.UserRecord{{EmployeeID: "E1", MobileNumber: "1"}}},
		{"duplicate id", []service.UserRecord{base, {EmployeeID: "E1", MobileNumber: "2", Password: "password2"}}},
		{"duplicate mobile", []service.UserRecord{base, {EmployeeID: "E2", MobileNumber: "1", Password: "password2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := service.NewUserDirectory(h, tt.records)
			require.Error(t, err)
		})
	}
}
