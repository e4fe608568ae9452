package types

type UserProfile struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
