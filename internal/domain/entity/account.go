package entity

// Account is the profile stored at /Account/{UserID}. Field names follow the
// records the mobile and web clients already read.
type Account struct {
	UserID       string   `json:"UserID"`
	Username     string   `json:"Username,omitempty"`
	FirstName    string   `json:"First_Name,omitempty"`
	LastName     string   `json:"Last_Name,omitempty"`
	PhoneNumber  string   `json:"PhoneNumber,omitempty"`
	School       string   `json:"School,omitempty"`
	Pronouns     string   `json:"Pronouns,omitempty"`
	AboutMe      string   `json:"AboutMe,omitempty"`
	CreatedAt    string   `json:"dateTime_creation,omitempty"`
	Email        string   `json:"email,omitempty"`
	LegacyEmail  string   `json:"Email,omitempty"` // written by early clients
	Marketplace  string   `json:"marketplace_id,omitempty"`
	Favorites    []string `json:"Favorites,omitempty"`
	ProfileImage string   `json:"pfp_key,omitempty"`
}

// ContactEmail returns the e-mail used for marketplace resolution.
func (a *Account) ContactEmail() string {
	if a.Email != "" {
		return a.Email
	}
	return a.LegacyEmail
}

// AccountPatch carries the fields of a merge update. Nil means unchanged.
type AccountPatch struct {
	Username    *string `json:"Username"`
	FirstName   *string `json:"First_Name"`
	LastName    *string `json:"Last_Name"`
	PhoneNumber *string `json:"PhoneNumber"`
	School      *string `json:"School"`
	Pronouns    *string `json:"Pronouns"`
	AboutMe     *string `json:"AboutMe"`
	Email       *string `json:"email"`
	Marketplace *string `json:"marketplace_id"`
}

// Fields returns the patch as tree-store children keyed by their stored
// names.
func (p *AccountPatch) Fields() map[string]interface{} {
	out := make(map[string]interface{})
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set("Username", p.Username)
	set("First_Name", p.FirstName)
	set("Last_Name", p.LastName)
	set("PhoneNumber", p.PhoneNumber)
	set("School", p.School)
	set("Pronouns", p.Pronouns)
	set("AboutMe", p.AboutMe)
	set("email", p.Email)
	set("marketplace_id", p.Marketplace)
	return out
}
