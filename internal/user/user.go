package user

type User struct {
	ID            int     `json:"userId"`
	Email         string  `json:"email,omitempty"`
	Password      string  `json:"password,omitempty"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Phone         string  `json:"phone,omitempty"`
	PhoneVerified bool    `json:"phoneVerified"`
	AvatarPic     *string `json:"avatarPic,omitempty"`
	CreatedAt     string  `json:"createAt,omitempty"`
	UpdatedAt     string  `json:"updateAt,omitempty"`
}
