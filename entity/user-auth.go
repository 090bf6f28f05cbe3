package entity

type UserAuth struct {
	Username string `json:"username" bson:"username"`
	Token    string `json:"token" bson:"token"`
}
