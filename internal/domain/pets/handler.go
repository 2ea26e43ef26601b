package pets

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-market-engine/internal/host"
)

func RegisterRoutes(r chi.Router, exec *host.Executor) {
	r.Route("/contracts/"+ContractName, func(cr chi.Router) {
		cr.Post("/init", initPetHandler(exec))
		cr.Post("/handle", handlePetHandler(exec))
		cr.Post("/query", queryPetHandler(exec))
	})
}

// initPetHandler godoc
// @Summary Instanciar el contrato Pet
// @Description Guarda el token aceptado (comida) y emite los efectos register_receive y set_viewing_key contra ese token. Falla si el contrato ya fue instanciado. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags pet
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, dirección del caller"
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Block-Time header int false "Block time (unix segundos); por defecto el reloj del host"
// @Param payload body host.CallRequest true "msg: {accepted_token:{address,code_hash}, admin?, viewing_key}"
// @Success 200 {object} host.CallResponse
// @Failure 400 {string} string "invalid json / msg inválido / ya instanciado"
// @Failure 401 {string} string "unauthorized"
// @Router /contracts/pet/init [post]
func initPetHandler(exec *host.Executor) http.HandlerFunc {
	return host.InitHandler(exec, ContractName)
}

// handlePetHandler godoc
// @Summary Ejecutar un mensaje del contrato Pet
// @Description Variantes: `create_pet {name, allowed_feed_timespan, total_saturation_time}` crea una mascota del caller; `receive {sender, from, amount, msg}` sólo lo puede llamar el token aceptado y alimenta la mascota indicada en msg (base64 de `{"feed":{"pet_id":N}}`).
// @Tags pet
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, dirección del caller"
// @Param Authorization header string false "Bearer token en producción"
// @Param X-Block-Time header int false "Block time (unix segundos)"
// @Param payload body host.CallRequest true "msg: create_pet | receive"
// @Success 200 {object} host.CallResponse
// @Failure 400 {string} string "msg inválido / not feeding time"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "caller no es el token aceptado"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "pet already dead"
// @Failure 500 {string} string "internal error"
// @Router /contracts/pet/handle [post]
func handlePetHandler(exec *host.Executor) http.HandlerFunc {
	return host.HandleHandler(exec, ContractName)
}

// queryPetHandler godoc
// @Summary Consultar el contrato Pet
// @Description Variantes: `last_fed {id, owner}`, `pet {id, owner}`, `pets {owner, page?, page_size?}` (newest-first, por defecto page 0 y page_size 30), `accepted_token {}`. No modifica estado.
// @Tags pet
// @Accept json
// @Produce json
// @Param X-Block-Time header int false "Block time con el que se clasifica alive/dead"
// @Param payload body host.CallRequest true "msg: last_fed | pet | pets | accepted_token"
// @Success 200 {object} host.CallResponse
// @Failure 400 {string} string "msg inválido"
// @Failure 404 {string} string "pet not found / contrato no instanciado"
// @Router /contracts/pet/query [post]
func queryPetHandler(exec *host.Executor) http.HandlerFunc {
	return host.QueryHandler(exec, ContractName)
}
