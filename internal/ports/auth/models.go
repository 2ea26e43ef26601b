package auth

// Claims es la identidad del caller que el transporte entrega al host.
type Claims struct {
	// Address es el sender de la llamada (dueño de las mascotas, depositante).
	Address string
	// KeyName identifica la API key usada, vacío en modo dev.
	KeyName string
}
