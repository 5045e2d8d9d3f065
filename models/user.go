package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is the staff account document. Besides profile fields it owns the
// server-side session bookkeeping (TokenStatus, TokenCreatedAt,
// LastActivityTime) and the password-reset fields.
type User struct {
	ID        UserID    `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time `json:"-" bson:"createdAt"`
	UpdatedAt time.Time `json:"-" bson:"updatedAt"`

	Username  string `json:"username" bson:"username"`
	Firstname string `json:"firstname" bson:"firstname"`
	Lastname  string `json:"lastname" bson:"lastname"`
	Email     string `json:"email" bson:"email"`
	Password  string `json:"-" bson:"password"`
	Phone     string `json:"phone" bson:"phone"`
	Address   string `json:"address" bson:"address"`
	Role      string `json:"role" bson:"role"`
	Status    string `json:"status" bson:"status"`

	// Session lifecycle. TokenStatus true means a previously issued
	// credential is still honored; false rejects any credential for this
	// user regardless of its own validity.
	TokenStatus      bool       `json:"-" bson:"tokenStatus"`
	TokenCreatedAt   *time.Time `json:"-" bson:"tokenCreatedAt"`
	LastActivityTime *time.Time `json:"-" bson:"lastActivityTime"`

	ResetPasswordToken  string     `json:"-" bson:"resetPasswordToken"`
	ResetPasswordExpire *time.Time `json:"-" bson:"resetPasswordExpire"`

	// Soft-delete flag, false hides the user from every lookup.
	IsActive bool `json:"-" bson:"isActive"`
}

// UserID is a defined type over ObjectID, so the driver's codec lookup
// misses the built-in encoder; the Marshal/Unmarshal implementations
// below keep _id a real ObjectID on the wire and the hex form in JSON.
type UserID bson.ObjectID

var (
	_ bson.ValueMarshaler   = UserID{}
	_ bson.ValueUnmarshaler = (*UserID)(nil)
	_ json.Marshaler        = UserID{}
	_ json.Unmarshaler      = (*UserID)(nil)
)

func (id UserID) MarshalBSONValue() (byte, []byte, error) {
	typ, data, err := bson.MarshalValue(bson.ObjectID(id))
	return byte(typ), data, err
}

func (id *UserID) UnmarshalBSONValue(typ byte, data []byte) error {
	var oid bson.ObjectID
	if err := bson.UnmarshalValue(bson.Type(typ), data, &oid); err != nil {
		return err
	}
	*id = UserID(oid)
	return nil
}

func (id UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *UserID) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err != nil {
		return err
	}

	parsed, err := ParseUserID(hex)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func ParseUserID(id string) (UserID, error) {
	uid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return UserID{}, err
	}

	return UserID(uid), nil
}

func NewUserID() UserID {
	return UserID(bson.NewObjectID())
}

func (id UserID) String() string {
	return bson.ObjectID(id).Hex()
}

func (id UserID) IsZero() bool {
	return bson.ObjectID(id).IsZero()
}
