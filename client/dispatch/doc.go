// Package dispatch é a fachada pública do cliente Strava.
//
// Client junta VersionRegistry, pool de admissão, transporte HTTP e os
// coletores opcionais (pacing, stats, log) em um Dispatcher e expõe as quatro
// operações: FetchText, FetchBytes, SendText e SendBytes.
//
// Um Client é seguro para uso concorrente; no máximo PoolSize chamadas ficam
// em voo ao mesmo tempo, as demais esperam por uma vaga.
package dispatch
