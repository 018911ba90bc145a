package model

// Playlist is a user-owned, unordered set of tracks.
type Playlist struct {
	ID      int64  `json:"id_playlist" gorm:"column:id_playlist;primaryKey;autoIncrement"`
	Name    string `json:"nome" gorm:"column:nome;size:255;not null"`
	OwnerID int64  `json:"id_dono" gorm:"column:id_dono;index"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistTrack is one (playlist, track) membership. The composite primary
// key keeps each pair unique.
type PlaylistTrack struct {
	PlaylistID int64 `json:"id_playlist" gorm:"column:id_playlist;primaryKey;autoIncrement:false"`
	TrackID    int64 `json:"id_musica" gorm:"column:id_musica;primaryKey;autoIncrement:false;index"`
}

func (PlaylistTrack) TableName() string {
	return "musica_playlist"
}
