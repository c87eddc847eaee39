package model

// Role is a single-bit privilege flag.
type Role int

const (
	RoleGuest Role = 1 << iota // 001
	RoleUser                   // 010
	RoleAdmin                  // 100
)

// AccessLevel is the OR-combination of every role allowed to call a route.
type AccessLevel int

const (
	AccessGuest = AccessLevel(RoleGuest | RoleUser | RoleAdmin) // 111
	AccessUser  = AccessLevel(RoleUser | RoleAdmin)             // 110
	AccessAdmin = AccessLevel(RoleAdmin)                        // 100
)

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}
