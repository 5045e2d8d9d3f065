package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// The _id must land on the wire as a real ObjectID so the filters built
// by the store ({_id: ObjectID(...)}) match documents created here.
func TestUser_BSONIDIsObjectID(t *testing.T) {
	t.Parallel()

	user := User{ID: NewUserID(), Email: "staff@facility.test"}

	raw, err := bson.Marshal(user)
	require.NoError(t, err)

	val := bson.Raw(raw).Lookup("_id")
	require.Equal(t, bson.TypeObjectID, val.Type)

	oid, ok := val.ObjectIDOK()
	require.True(t, ok)
	require.Equal(t, user.ID.String(), oid.Hex())
}

func TestUser_BSONRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now().Truncate(time.Millisecond).UTC()
	user := User{
		ID:               NewUserID(),
		Email:            "staff@facility.test",
		TokenStatus:      true,
		TokenCreatedAt:   &now,
		LastActivityTime: &now,
		IsActive:         true,
	}

	raw, err := bson.Marshal(user)
	require.NoError(t, err)

	var decoded User
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	require.Equal(t, user.ID.String(), decoded.ID.String())
	require.True(t, decoded.TokenStatus)
	require.NotNil(t, decoded.TokenCreatedAt)
	require.True(t, decoded.TokenCreatedAt.Equal(now))
}

func TestUserID_JSONHexForm(t *testing.T) {
	t.Parallel()

	id := NewUserID()

	data, err := json.Marshal(User{ID: id})
	require.NoError(t, err)
	require.Contains(t, string(data), `"id":"`+id.String()+`"`)

	var decoded struct {
		ID UserID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, id.String(), decoded.ID.String())
}
