package enums

// GuestStoreKind selects the backing store for guest carts.
type GuestStoreKind string

const (
	GuestStoreRedis GuestStoreKind = "redis"
	GuestStoreDB    GuestStoreKind = "db"
)

func (k GuestStoreKind) IsValid() bool {
	switch k {
	case GuestStoreRedis, GuestStoreDB:
		return true
	}
	return false
}
