package model

// Album groups tracks released by a user.
type Album struct {
	ID     int64  `json:"id_album" gorm:"column:id_album;primaryKey;autoIncrement"`
	Title  string `json:"titulo" gorm:"column:titulo;size:255;not null"`
	Year   int    `json:"ano" gorm:"column:ano"`
	UserID int64  `json:"id_usuario" gorm:"column:id_usuario;index"`
}

func (Album) TableName() string {
	return "albuns"
}
