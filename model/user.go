package model

// User is a registered account. The password hash never leaves the store
// through JSON.
type User struct {
	ID           int64  `json:"id_usuario" gorm:"column:id_usuario;primaryKey;autoIncrement"`
	Name         string `json:"nome" gorm:"column:nome;size:255;not null"`
	Email        string `json:"email" gorm:"column:email;size:255;not null;index"`
	PasswordHash string `json:"-" gorm:"column:senha_hash;size:255;not null"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "usuarios"
}
