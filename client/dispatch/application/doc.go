// Package application contém os casos de uso do dispatcher: admissão com vagas
// limitadas, montagem de URL, tradução de erros e a máquina de estados por chamada.
//
// Ele depende do pacote domain (e do logger) e não conhece net/http.
// Ex.: Dispatcher.Execute(ctx, spec) devolve os bytes da resposta ou um *domain.Error.
package application
