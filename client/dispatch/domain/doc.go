// Package domain define contratos e tipos de domínio do dispatcher de requisições
// para a API do Strava.
//
// Este pacote não depende de net/http nem de implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar as regras
// (validação, roteamento por versão, taxonomia de erros) dos detalhes de transporte.
package domain
