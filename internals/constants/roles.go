package constants

import "fmt"

// Role staff. Disimpan sebagai flag is_superuser di tabel users.
const (
	RoleStaff     = "staff"
	RoleSuperuser = "superuser"
)

// Key c.Locals yang diisi middleware sesi
const (
	LocUserName    = "user_name"
	LocIsSuperuser = "is_superuser"
)

const ErrOnlySuperuserCanAccess = "Only a superuser can access %s."

func RoleErrorSuperuser(feature string) string {
	return fmt.Sprintf(ErrOnlySuperuserCanAccess, feature)
}

func RoleOf(isSuperuser bool) string {
	if isSuperuser {
		return RoleSuperuser
	}
	return RoleStaff
}
