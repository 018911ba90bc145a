package model

// Track represents an audio track in the catalog. AlbumID and UserID are
// opaque references; the audio bytes live in the asset store under the
// track's ID.
type Track struct {
	ID       int64  `json:"id_musica" gorm:"column:id_musica;primaryKey;autoIncrement"`
	Name     string `json:"nome" gorm:"column:nome;size:255;not null"`
	Genre    string `json:"genero" gorm:"column:genero;size:100;index"`
	Duration int    `json:"duracao_seg" gorm:"column:duracao_seg"` // seconds
	AlbumID  int64  `json:"id_album" gorm:"column:id_album;index"`
	UserID   int64  `json:"id_usuario" gorm:"column:id_usuario;index"`
}

func (Track) TableName() string {
	return "musicas"
}
